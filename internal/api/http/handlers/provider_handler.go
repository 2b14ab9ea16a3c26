package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/session-service/internal/api/dto"
	"github.com/spec-kit/session-service/internal/identity"
	apperrors "github.com/spec-kit/session-service/pkg/util"
)

// ProviderHandler exposes the identity provider adapter endpoints that mint
// identity claims for the session lifecycle.
type ProviderHandler struct {
	provider *identity.LocalProvider
}

// NewProviderHandler constructs handler.
func NewProviderHandler(provider *identity.LocalProvider) *ProviderHandler {
	return &ProviderHandler{provider: provider}
}

// Signup handles POST /provider/signup.
func (h *ProviderHandler) Signup(c *fiber.Ctx) error {
	var req dto.ProviderSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	subject, err := h.provider.CreateAccount(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return apperrors.NewConflict("email already registered", nil)
		}
		return apperrors.MapError(err)
	}

	claim, err := h.provider.IssueClaim(c.Context(), req.Email, req.Password)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"subject": dto.SubjectResponse{ID: subject.ID, Email: subject.Email},
			"auth":    dto.ClaimResponse{Claim: claim},
		},
	})
}

// Login handles POST /provider/login.
func (h *ProviderHandler) Login(c *fiber.Ctx) error {
	var req dto.ProviderLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	claim, err := h.provider.IssueClaim(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrBadCredentials) {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"data": dto.ClaimResponse{Claim: claim},
	})
}
