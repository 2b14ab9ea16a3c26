package identity

import (
	"context"
	"errors"

	"github.com/spec-kit/session-service/internal/domain"
)

// Provider is the external identity provider contract the session core
// consumes. The local adapter below implements it in-process; a remote
// implementation could be substituted without touching the core.
type Provider interface {
	CreateAccount(ctx context.Context, email, secret string) (domain.Subject, error)
	LookupByEmail(ctx context.Context, email string) (domain.Subject, error)
	LookupByID(ctx context.Context, id string) (domain.Subject, error)
	// VerifyClaim validates a provider-issued identity claim and returns the
	// stable subject id it attests to.
	VerifyClaim(ctx context.Context, claim string) (string, error)
}

var (
	ErrAccountNotFound = errors.New("identity: account not found")
	ErrEmailTaken      = errors.New("identity: email already registered")
	ErrBadCredentials  = errors.New("identity: invalid credentials")
	ErrClaimRejected   = errors.New("identity: claim rejected")
)
