package identity

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/session-service/internal/config"
)

// ClaimSigner issues and verifies provider identity claims. Claims use a
// provider-scoped secret distinct from the session signing secret and carry
// the configured audience.
type ClaimSigner struct {
	secret   []byte
	audience string
	ttl      time.Duration
	now      func() time.Time
}

// NewClaimSigner builds a signer from provider configuration.
func NewClaimSigner(cfg config.ProviderConfig) *ClaimSigner {
	return &ClaimSigner{
		secret:   []byte(cfg.ClaimSecret),
		audience: cfg.Audience,
		ttl:      cfg.ClaimTTL(),
		now:      time.Now,
	}
}

// Sign mints a short-lived identity claim for the subject.
func (cs *ClaimSigner) Sign(subjectID string) (string, error) {
	now := cs.now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		Audience:  jwt.ClaimStrings{cs.audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(cs.ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(cs.secret)
}

// Verify checks signature, expiry and audience, returning the subject id,
// claim id and remaining lifetime for one-time consumption.
func (cs *ClaimSigner) Verify(claim string) (subjectID, claimID string, remaining time.Duration, err error) {
	parsed, err := jwt.ParseWithClaims(claim, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return cs.secret, nil
	},
		jwt.WithAudience(cs.audience),
		jwt.WithTimeFunc(func() time.Time { return cs.now() }),
	)
	if err != nil {
		return "", "", 0, ErrClaimRejected
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", "", 0, ErrClaimRejected
	}

	remaining = claims.ExpiresAt.Time.Sub(cs.now())
	if remaining < 0 {
		remaining = 0
	}
	return claims.Subject, claims.ID, remaining, nil
}
