package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/spec-kit/session-service/internal/domain"
	"github.com/spec-kit/session-service/internal/identity"
)

// Established bundles a freshly minted credential pair with the subject view
// it was issued for.
type Established struct {
	Subject domain.Subject
	Pair    CredentialPair
}

// Service coordinates the credential lifecycle: claim-based issuance, access
// verification and the two-tier renewal protocol. All operations are
// request-scoped and stateless.
type Service struct {
	tokens   *TokenManager
	provider identity.Provider
}

// NewService builds the service.
func NewService(tokens *TokenManager, provider identity.Provider) *Service {
	return &Service{tokens: tokens, provider: provider}
}

// Register converts a verified identity claim into a credential pair for a
// newly registered subject.
func (s *Service) Register(ctx context.Context, claim string) (*Established, error) {
	return s.establish(ctx, claim)
}

// Authenticate converts a verified identity claim into a credential pair.
func (s *Service) Authenticate(ctx context.Context, claim string) (*Established, error) {
	return s.establish(ctx, claim)
}

// Authorize validates an access credential and returns the embedded subject
// view. Validity is determined purely by signature and expiry; no server-side
// record is consulted.
func (s *Service) Authorize(token string) (domain.Subject, error) {
	return s.tokens.VerifyAccess(token)
}

// Renew implements the renewal protocol. The renewal credential is required
// and always verified first; the optional identity claim is only consulted
// after the renewal credential is confirmed expired.
func (s *Service) Renew(ctx context.Context, renewalToken, claim string) (*Established, error) {
	if renewalToken == "" {
		return nil, ErrMissingRenewalCredential
	}

	subjectID, err := s.tokens.VerifyRenewal(renewalToken)
	switch {
	case err == nil:
		// Re-derive the subject from the provider's current record rather
		// than trusting the token payload; profile fields may have changed.
		subject, lookupErr := s.provider.LookupByID(ctx, subjectID)
		if lookupErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, lookupErr)
		}
		return s.reissue(subject)

	case errors.Is(err, errRenewalExpired):
		return s.renewViaClaim(ctx, claim)

	default:
		return nil, err
	}
}

// renewViaClaim is the fallback path: the renewal credential expired, so a
// fresh identity claim must vouch for the subject in the same request.
func (s *Service) renewViaClaim(ctx context.Context, claim string) (*Established, error) {
	if claim == "" {
		return nil, ErrRenewalExpiredNeedsReauth
	}

	subjectID, err := s.provider.VerifyClaim(ctx, claim)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	subject, err := s.provider.LookupByID(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	return s.reissue(subject)
}

func (s *Service) establish(ctx context.Context, claim string) (*Established, error) {
	if claim == "" {
		return nil, ErrInvalidIdentityClaim
	}

	subjectID, err := s.provider.VerifyClaim(ctx, claim)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdentityClaim, err)
	}
	subject, err := s.provider.LookupByID(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdentityClaim, err)
	}
	return s.reissue(subject)
}

func (s *Service) reissue(subject domain.Subject) (*Established, error) {
	pair, err := s.tokens.IssuePair(subject)
	if err != nil {
		return nil, fmt.Errorf("issue credential pair: %w", err)
	}
	return &Established{Subject: subject, Pair: pair}, nil
}
