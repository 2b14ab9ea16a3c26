package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/session-service/internal/config"
)

func testProviderConfig() config.ProviderConfig {
	return config.ProviderConfig{
		ClaimSecret:     "provider-secret",
		ClaimTTLMinutes: 5,
		Audience:        "session-service",
		BcryptCost:      4,
	}
}

func TestClaimSignerRoundtrip(t *testing.T) {
	signer := NewClaimSigner(testProviderConfig())

	claim, err := signer.Sign("u1")
	require.NoError(t, err)

	subjectID, claimID, remaining, err := signer.Verify(claim)
	require.NoError(t, err)
	assert.Equal(t, "u1", subjectID)
	assert.NotEmpty(t, claimID)
	assert.Greater(t, remaining, time.Duration(0))
}

func TestClaimSignerRejectsWrongAudience(t *testing.T) {
	otherCfg := testProviderConfig()
	otherCfg.Audience = "someone-else"
	other := NewClaimSigner(otherCfg)

	claim, err := other.Sign("u1")
	require.NoError(t, err)

	signer := NewClaimSigner(testProviderConfig())
	_, _, _, err = signer.Verify(claim)
	assert.ErrorIs(t, err, ErrClaimRejected)
}

func TestClaimSignerRejectsForgery(t *testing.T) {
	forgerCfg := testProviderConfig()
	forgerCfg.ClaimSecret = "not-the-secret"
	forger := NewClaimSigner(forgerCfg)

	claim, err := forger.Sign("u1")
	require.NoError(t, err)

	signer := NewClaimSigner(testProviderConfig())
	_, _, _, err = signer.Verify(claim)
	assert.ErrorIs(t, err, ErrClaimRejected)

	_, _, _, err = signer.Verify("garbage")
	assert.ErrorIs(t, err, ErrClaimRejected)
}

func TestClaimSignerRejectsExpired(t *testing.T) {
	signer := NewClaimSigner(testProviderConfig())
	signer.now = func() time.Time { return time.Now().Add(-time.Hour) }

	claim, err := signer.Sign("u1")
	require.NoError(t, err)

	verifier := NewClaimSigner(testProviderConfig())
	_, _, _, err = verifier.Verify(claim)
	assert.ErrorIs(t, err, ErrClaimRejected)
}
