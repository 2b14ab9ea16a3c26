package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/session-service/internal/domain"
	"github.com/spec-kit/session-service/internal/identity"
)

// fakeProvider is an in-memory identity provider double.
type fakeProvider struct {
	subjects         map[string]domain.Subject
	claims           map[string]string
	verifyClaimCalls int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		subjects: map[string]domain.Subject{},
		claims:   map[string]string{},
	}
}

func (p *fakeProvider) addSubject(s domain.Subject) {
	p.subjects[s.ID] = s
}

func (p *fakeProvider) addClaim(claim, subjectID string) {
	p.claims[claim] = subjectID
}

func (p *fakeProvider) CreateAccount(_ context.Context, email, _ string) (domain.Subject, error) {
	s := domain.Subject{ID: "sub-" + email, Email: email}
	p.subjects[s.ID] = s
	return s, nil
}

func (p *fakeProvider) LookupByEmail(_ context.Context, email string) (domain.Subject, error) {
	for _, s := range p.subjects {
		if s.Email == email {
			return s, nil
		}
	}
	return domain.Subject{}, identity.ErrAccountNotFound
}

func (p *fakeProvider) LookupByID(_ context.Context, id string) (domain.Subject, error) {
	s, ok := p.subjects[id]
	if !ok {
		return domain.Subject{}, identity.ErrAccountNotFound
	}
	return s, nil
}

func (p *fakeProvider) VerifyClaim(_ context.Context, claim string) (string, error) {
	p.verifyClaimCalls++
	id, ok := p.claims[claim]
	if !ok {
		return "", identity.ErrClaimRejected
	}
	return id, nil
}

func newTestService(t *testing.T) (*Service, *fakeProvider, *testClock) {
	t.Helper()
	tm, clock := newTestManager(t)
	provider := newFakeProvider()
	return NewService(tm, provider), provider, clock
}

func TestAuthenticateWithValidClaim(t *testing.T) {
	svc, provider, _ := newTestService(t)
	provider.addSubject(domain.Subject{ID: "u1", Email: "a@b.com"})
	provider.addClaim("claim-1", "u1")

	established, err := svc.Authenticate(context.Background(), "claim-1")
	require.NoError(t, err)
	assert.Equal(t, "u1", established.Subject.ID)
	assert.Equal(t, "a@b.com", established.Subject.Email)

	got, err := svc.Authorize(established.Pair.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, established.Subject, got)
}

func TestAuthenticateRejectedClaim(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrInvalidIdentityClaim)

	_, err = svc.Register(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidIdentityClaim)
}

func TestAuthenticateClaimForDeletedSubject(t *testing.T) {
	svc, provider, _ := newTestService(t)
	provider.addClaim("claim-1", "gone")

	_, err := svc.Authenticate(context.Background(), "claim-1")
	assert.ErrorIs(t, err, ErrInvalidIdentityClaim)
}

func TestRenewWithValidRenewalCredential(t *testing.T) {
	svc, provider, _ := newTestService(t)
	provider.addSubject(domain.Subject{ID: "u1", Email: "a@b.com"})
	provider.addClaim("claim-1", "u1")

	established, err := svc.Authenticate(context.Background(), "claim-1")
	require.NoError(t, err)

	// Provider-side profile change must surface in the renewed credentials.
	provider.addSubject(domain.Subject{ID: "u1", Email: "new@b.com"})

	renewed, err := svc.Renew(context.Background(), established.Pair.Renewal.Token, "")
	require.NoError(t, err)
	assert.Equal(t, "new@b.com", renewed.Subject.Email)

	got, err := svc.Authorize(renewed.Pair.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, "new@b.com", got.Email)
}

func TestRenewPrecedenceOverClaim(t *testing.T) {
	svc, provider, _ := newTestService(t)
	provider.addSubject(domain.Subject{ID: "u1", Email: "a@b.com"})
	provider.addClaim("claim-1", "u1")

	established, err := svc.Authenticate(context.Background(), "claim-1")
	require.NoError(t, err)
	provider.verifyClaimCalls = 0

	_, err = svc.Renew(context.Background(), established.Pair.Renewal.Token, "claim-1")
	require.NoError(t, err)
	assert.Zero(t, provider.verifyClaimCalls, "claim must not be consulted while the renewal credential is valid")
}

func TestRenewMissingCredential(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Renew(context.Background(), "", "claim-1")
	assert.ErrorIs(t, err, ErrMissingRenewalCredential)
}

func TestRenewWithAccessCredential(t *testing.T) {
	svc, provider, _ := newTestService(t)
	provider.addSubject(domain.Subject{ID: "u1", Email: "a@b.com"})
	provider.addClaim("claim-1", "u1")

	established, err := svc.Authenticate(context.Background(), "claim-1")
	require.NoError(t, err)

	_, err = svc.Renew(context.Background(), established.Pair.Access.Token, "")
	assert.ErrorIs(t, err, ErrInvalidRenewalCredential)
}

func TestRenewExpiredWithoutClaim(t *testing.T) {
	svc, provider, clock := newTestService(t)
	provider.addSubject(domain.Subject{ID: "u1", Email: "a@b.com"})
	provider.addClaim("claim-1", "u1")

	established, err := svc.Authenticate(context.Background(), "claim-1")
	require.NoError(t, err)

	clock.advance(2 * time.Hour)
	_, err = svc.Renew(context.Background(), established.Pair.Renewal.Token, "")
	assert.ErrorIs(t, err, ErrRenewalExpiredNeedsReauth)
	assert.NotErrorIs(t, err, ErrInvalidRenewalCredential)
}

func TestRenewExpiredWithValidClaim(t *testing.T) {
	svc, provider, clock := newTestService(t)
	provider.addSubject(domain.Subject{ID: "u1", Email: "a@b.com"})
	provider.addClaim("claim-1", "u1")
	provider.addClaim("claim-2", "u1")

	established, err := svc.Authenticate(context.Background(), "claim-1")
	require.NoError(t, err)

	clock.advance(2 * time.Hour)
	renewed, err := svc.Renew(context.Background(), established.Pair.Renewal.Token, "claim-2")
	require.NoError(t, err)
	assert.Equal(t, "u1", renewed.Subject.ID)

	got, err := svc.Authorize(renewed.Pair.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
}

func TestRenewExpiredWithRejectedClaim(t *testing.T) {
	svc, provider, clock := newTestService(t)
	provider.addSubject(domain.Subject{ID: "u1", Email: "a@b.com"})
	provider.addClaim("claim-1", "u1")

	established, err := svc.Authenticate(context.Background(), "claim-1")
	require.NoError(t, err)

	clock.advance(2 * time.Hour)
	_, err = svc.Renew(context.Background(), established.Pair.Renewal.Token, "bogus")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestRenewSubjectRemovedAtProvider(t *testing.T) {
	svc, provider, _ := newTestService(t)
	provider.addSubject(domain.Subject{ID: "u1", Email: "a@b.com"})
	provider.addClaim("claim-1", "u1")

	established, err := svc.Authenticate(context.Background(), "claim-1")
	require.NoError(t, err)

	delete(provider.subjects, "u1")
	_, err = svc.Renew(context.Background(), established.Pair.Renewal.Token, "")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestConsecutiveRenewalsMintDistinctPairs(t *testing.T) {
	svc, provider, _ := newTestService(t)
	provider.addSubject(domain.Subject{ID: "u1", Email: "a@b.com"})
	provider.addClaim("claim-1", "u1")

	established, err := svc.Authenticate(context.Background(), "claim-1")
	require.NoError(t, err)

	first, err := svc.Renew(context.Background(), established.Pair.Renewal.Token, "")
	require.NoError(t, err)
	second, err := svc.Renew(context.Background(), established.Pair.Renewal.Token, "")
	require.NoError(t, err)

	assert.NotEqual(t, first.Pair.Access.Token, second.Pair.Access.Token)
	assert.NotEqual(t, first.Pair.Renewal.Token, second.Pair.Renewal.Token)
}

// End-to-end walk of the lifecycle: authorize fresh, expire, then hit the
// renewal escape hatch.
func TestLifecycleScenario(t *testing.T) {
	svc, provider, clock := newTestService(t)
	provider.addSubject(domain.Subject{ID: "u1", Email: "a@b.com"})
	provider.addClaim("claim-1", "u1")

	established, err := svc.Authenticate(context.Background(), "claim-1")
	require.NoError(t, err)

	got, err := svc.Authorize(established.Pair.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.Subject{ID: "u1", Email: "a@b.com"}, got)

	clock.advance(2 * time.Hour)

	_, err = svc.Authorize(established.Pair.Access.Token)
	assert.ErrorIs(t, err, ErrCredentialExpired)

	_, err = svc.Renew(context.Background(), established.Pair.Renewal.Token, "")
	assert.ErrorIs(t, err, ErrRenewalExpiredNeedsReauth)
}
