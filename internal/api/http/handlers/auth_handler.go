package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/session-service/internal/api/dto"
	"github.com/spec-kit/session-service/internal/session"
)

// AuthHandler exposes the session credential lifecycle endpoints.
type AuthHandler struct {
	sessions *session.Service
}

// NewAuthHandler constructs handler.
func NewAuthHandler(sessions *session.Service) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.EstablishRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Claim == "" {
		return fiber.NewError(http.StatusBadRequest, "claim required")
	}

	established, err := h.sessions.Register(c.Context(), req.Claim)
	if err != nil {
		return session.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(establishedResponse(established))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.EstablishRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Claim == "" {
		return fiber.NewError(http.StatusBadRequest, "claim required")
	}

	established, err := h.sessions.Authenticate(c.Context(), req.Claim)
	if err != nil {
		return session.MapError(err)
	}
	return c.JSON(establishedResponse(established))
}

// Renew handles POST /auth/renew.
func (h *AuthHandler) Renew(c *fiber.Ctx) error {
	var req dto.RenewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	established, err := h.sessions.Renew(c.Context(), req.RenewalToken, req.Claim)
	if err != nil {
		return session.MapError(err)
	}
	return c.JSON(establishedResponse(established))
}

// Me handles GET /auth/me behind the session middleware.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	subject, ok := session.SubjectFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}
	return c.JSON(fiber.Map{
		"data": dto.SubjectResponse{ID: subject.ID, Email: subject.Email},
	})
}

func establishedResponse(established *session.Established) fiber.Map {
	return fiber.Map{
		"data": fiber.Map{
			"subject": dto.SubjectResponse{
				ID:    established.Subject.ID,
				Email: established.Subject.Email,
			},
			"credentials": dto.CredentialPairResponse{
				AccessToken:      established.Pair.Access.Token,
				AccessExpiresAt:  established.Pair.Access.ExpiresAt,
				RenewalToken:     established.Pair.Renewal.Token,
				RenewalExpiresAt: established.Pair.Renewal.ExpiresAt,
			},
		},
	}
}
