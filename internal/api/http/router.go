package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/session-service/internal/api/http/handlers"
	"github.com/spec-kit/session-service/internal/observability"
	"github.com/spec-kit/session-service/internal/session"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Provider          *handlers.ProviderHandler
	Auth              *handlers.AuthHandler
	SessionMiddleware *session.Middleware
	Metrics           *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{}),
	))

	providerGroup := app.Group("/provider")
	providerGroup.Post("/signup", cfg.Provider.Signup)
	providerGroup.Post("/login", cfg.Provider.Login)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/renew", cfg.Auth.Renew)

	protected := authGroup.Group("", cfg.SessionMiddleware.Handle)
	protected.Get("/me", cfg.Auth.Me)
}
