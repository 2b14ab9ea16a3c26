package session

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/session-service/internal/config"
	"github.com/spec-kit/session-service/internal/domain"
)

// Kind tags a credential so an access token can never be replayed as a
// renewal token or vice versa. Both share the signing secret but not a
// namespace of validity.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRenewal Kind = "renewal"
)

// Claims describes the JWT payload of locally issued credentials.
type Claims struct {
	Email string `json:"email,omitempty"`
	Kind  Kind   `json:"kind"`
	jwt.RegisteredClaims
}

// Credential is a signed token together with its expiry.
type Credential struct {
	Token     string
	ExpiresAt time.Time
}

// CredentialPair is always minted atomically from a single subject snapshot.
// No partial-pair state exists.
type CredentialPair struct {
	Access  Credential
	Renewal Credential
}

// TokenManager issues and verifies session credentials.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	renewalTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a manager from session configuration.
func NewTokenManager(cfg config.SessionConfig) *TokenManager {
	return &TokenManager{
		secret:     []byte(cfg.SigningSecret),
		accessTTL:  cfg.AccessTTL(),
		renewalTTL: cfg.RenewalTTL(),
		now:        time.Now,
	}
}

// IssuePair mints a fresh access and renewal credential for the subject.
// Issuance is a pure computation; a signing failure is unexpected and
// surfaces as an internal error.
func (tm *TokenManager) IssuePair(subject domain.Subject) (CredentialPair, error) {
	now := tm.now()

	access, accessExp, err := tm.sign(subject.ID, subject.Email, KindAccess, now, tm.accessTTL)
	if err != nil {
		return CredentialPair{}, err
	}
	renewal, renewalExp, err := tm.sign(subject.ID, "", KindRenewal, now, tm.renewalTTL)
	if err != nil {
		return CredentialPair{}, err
	}

	return CredentialPair{
		Access:  Credential{Token: access, ExpiresAt: accessExp},
		Renewal: Credential{Token: renewal, ExpiresAt: renewalExp},
	}, nil
}

// VerifyAccess validates an access credential and returns the embedded
// subject view. Expired-but-well-signed tokens are reported distinctly from
// forged or malformed ones so callers can drive the renewal protocol.
func (tm *TokenManager) VerifyAccess(tokenStr string) (domain.Subject, error) {
	if tokenStr == "" {
		return domain.Subject{}, ErrMissingCredential
	}

	claims, err := tm.parse(tokenStr)
	if err != nil {
		if claims != nil && errors.Is(err, jwt.ErrTokenExpired) {
			if claims.Kind != KindAccess {
				return domain.Subject{}, ErrInvalidCredential
			}
			return domain.Subject{}, ErrCredentialExpired
		}
		return domain.Subject{}, ErrInvalidCredential
	}
	if claims.Kind != KindAccess {
		return domain.Subject{}, ErrInvalidCredential
	}

	return domain.Subject{ID: claims.Subject, Email: claims.Email}, nil
}

// VerifyRenewal validates a renewal credential and returns the embedded
// subject id. Kind mismatches are caller errors and take precedence over
// expiry: an expired access token presented here is invalid, not expired.
func (tm *TokenManager) VerifyRenewal(tokenStr string) (string, error) {
	claims, err := tm.parse(tokenStr)
	if err != nil {
		if claims != nil && errors.Is(err, jwt.ErrTokenExpired) {
			if claims.Kind != KindRenewal {
				return "", ErrInvalidRenewalCredential
			}
			return "", errRenewalExpired
		}
		return "", ErrInvalidRenewalCredential
	}
	if claims.Kind != KindRenewal {
		return "", ErrInvalidRenewalCredential
	}

	return claims.Subject, nil
}

func (tm *TokenManager) sign(subjectID, email string, kind Kind, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Email: email,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// parse verifies the signature and standard claims. On expiry the decoded
// claims are still returned so callers can inspect the credential kind.
func (tm *TokenManager) parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return tm.now() }))
	if err != nil {
		if parsed != nil {
			if claims, ok := parsed.Claims.(*Claims); ok {
				return claims, err
			}
		}
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
