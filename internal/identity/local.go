package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/session-service/internal/config"
	"github.com/spec-kit/session-service/internal/domain"
	"github.com/spec-kit/session-service/internal/repository"
)

// LocalProvider is the in-process identity provider adapter: Postgres-backed
// accounts, bcrypt secrets, signed single-use identity claims.
type LocalProvider struct {
	accounts   repository.AccountRepository
	signer     *ClaimSigner
	guard      *ClaimGuard
	bcryptCost int
}

// NewLocalProvider builds the adapter.
func NewLocalProvider(cfg config.ProviderConfig, accounts repository.AccountRepository, signer *ClaimSigner, guard *ClaimGuard) *LocalProvider {
	return &LocalProvider{
		accounts:   accounts,
		signer:     signer,
		guard:      guard,
		bcryptCost: cfg.BcryptCost,
	}
}

// CreateAccount registers a new provider account.
func (p *LocalProvider) CreateAccount(ctx context.Context, email, secret string) (domain.Subject, error) {
	if _, err := p.accounts.GetByEmail(ctx, email); err == nil {
		return domain.Subject{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Subject{}, err
	}

	hash, err := HashSecret(secret, p.bcryptCost)
	if err != nil {
		return domain.Subject{}, err
	}

	account := &domain.Account{
		Email:      email,
		SecretHash: hash,
		Status:     domain.AccountStatusActive,
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		return domain.Subject{}, err
	}
	return account.Subject(), nil
}

// LookupByEmail resolves the subject view for an account email.
func (p *LocalProvider) LookupByEmail(ctx context.Context, email string) (domain.Subject, error) {
	account, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subject{}, ErrAccountNotFound
		}
		return domain.Subject{}, err
	}
	return account.Subject(), nil
}

// LookupByID resolves the subject view for a stable subject id.
func (p *LocalProvider) LookupByID(ctx context.Context, id string) (domain.Subject, error) {
	account, err := p.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subject{}, ErrAccountNotFound
		}
		return domain.Subject{}, err
	}
	return account.Subject(), nil
}

// IssueClaim authenticates an account secret and mints an identity claim.
func (p *LocalProvider) IssueClaim(ctx context.Context, email, secret string) (string, error) {
	account, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrBadCredentials
		}
		return "", err
	}
	if account.Status != domain.AccountStatusActive {
		return "", ErrBadCredentials
	}
	if err := CompareSecret(account.SecretHash, secret); err != nil {
		return "", ErrBadCredentials
	}
	return p.signer.Sign(account.ID)
}

// VerifyClaim validates an identity claim and consumes it. Replayed claim ids
// are rejected when a guard is configured.
func (p *LocalProvider) VerifyClaim(ctx context.Context, claim string) (string, error) {
	subjectID, claimID, remaining, err := p.signer.Verify(claim)
	if err != nil {
		return "", err
	}
	if err := p.guard.Consume(ctx, claimID, remaining); err != nil {
		return "", err
	}
	return subjectID, nil
}
