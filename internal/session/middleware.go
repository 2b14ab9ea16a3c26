package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/session-service/internal/domain"
	apperrors "github.com/spec-kit/session-service/pkg/util"
)

const subjectKey = "session_subject"

// Middleware gates protected routes on a valid access credential.
type Middleware struct {
	service *Service
}

// NewMiddleware constructs middleware.
func NewMiddleware(service *Service) *Middleware {
	return &Middleware{service: service}
}

// Handle enforces the Authorization bearer convention and verifies the
// presented access credential.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorizedCode("MISSING_CREDENTIAL", "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorizedCode("MISSING_CREDENTIAL", "invalid authorization header")
	}

	subject, err := m.service.Authorize(parts[1])
	if err != nil {
		return MapError(err)
	}

	c.Locals(subjectKey, subject)
	return c.Next()
}

// SubjectFromContext retrieves the authenticated subject view.
func SubjectFromContext(c *fiber.Ctx) (domain.Subject, bool) {
	val := c.Locals(subjectKey)
	if val == nil {
		return domain.Subject{}, false
	}
	subject, ok := val.(domain.Subject)
	return subject, ok
}

// MapError translates session failure sentinels into wire-level DomainErrors
// with stable codes. RenewalExpiredNeedsReauth keeps a distinct code so
// automated clients can branch into provider re-authentication.
func MapError(err error) error {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return apperrors.NewUnauthorizedCode("MISSING_CREDENTIAL", "missing access credential")
	case errors.Is(err, ErrCredentialExpired):
		return apperrors.NewUnauthorizedCode("CREDENTIAL_EXPIRED", "access credential expired")
	case errors.Is(err, ErrInvalidCredential):
		return apperrors.NewUnauthorizedCode("INVALID_CREDENTIAL", "invalid access credential")
	case errors.Is(err, ErrMissingRenewalCredential):
		return apperrors.NewDomainError("MISSING_RENEWAL_CREDENTIAL", "renewal credential required", http.StatusBadRequest, nil)
	case errors.Is(err, ErrInvalidRenewalCredential):
		return apperrors.NewUnauthorizedCode("INVALID_RENEWAL_CREDENTIAL", "invalid renewal credential")
	case errors.Is(err, ErrRenewalExpiredNeedsReauth):
		return apperrors.NewUnauthorizedCode("RENEWAL_EXPIRED_REAUTH_REQUIRED", "renewal credential expired; re-authenticate with the identity provider")
	case errors.Is(err, ErrInvalidIdentityClaim):
		return apperrors.NewUnauthorizedCode("INVALID_IDENTITY_CLAIM", "identity claim rejected")
	case errors.Is(err, ErrAuthenticationFailed):
		return apperrors.NewUnauthorizedCode("AUTHENTICATION_FAILED", "authentication failed")
	default:
		return apperrors.MapError(err)
	}
}
