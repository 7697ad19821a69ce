package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/station-console/internal/api/http/handlers"
	"github.com/spec-kit/station-console/internal/nav"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Session *handlers.SessionHandler
	Shell   *handlers.ShellHandler
	Guard   *nav.Guard
}

// RegisterRoutes wires HTTP routes. Everything under /shell is a protected
// view and sits behind the guard.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")
	api.Post("/session", cfg.Session.Login)
	api.Get("/session", cfg.Session.Current)
	api.Delete("/session", cfg.Session.Logout)
	api.Get("/login-form", cfg.Session.FormState)
	api.Delete("/login-form/feedback", cfg.Session.DismissFeedback)

	protected := api.Group("/shell", cfg.Guard.Handler())
	protected.Get("/menu", cfg.Shell.Menu)
	protected.Get("/dashboard", cfg.Shell.Dashboard)
	protected.Get("/page", cfg.Shell.Page)
}
