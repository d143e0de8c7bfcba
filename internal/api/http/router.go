package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xyzesther/CommunityAssist/internal/api/http/handlers"
	"github.com/xyzesther/CommunityAssist/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Requests       *handlers.RequestsHandler
	Appointments   *handlers.AppointmentsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Listing and reading requests and
// appointments is public; everything that mutates, or that is scoped to the
// caller, requires a verified bearer token.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	authed := cfg.AuthMiddleware.Handle

	app.Get("/ping", cfg.Health.Ping)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/verify-user", authed, cfg.Users.Verify)
	app.Get("/user", authed, cfg.Users.Get)
	app.Put("/user", authed, cfg.Users.Update)

	app.Post("/requests", authed, cfg.Requests.Create)
	app.Get("/requests", cfg.Requests.List)
	// registered before /requests/:id so "user" is not captured as an id
	app.Get("/requests/user", authed, cfg.Requests.ListMine)
	app.Get("/requests/:id", cfg.Requests.Get)
	app.Put("/requests/:id", authed, cfg.Requests.Update)
	app.Delete("/requests/:id", authed, cfg.Requests.Delete)

	app.Post("/appointments", authed, cfg.Appointments.Create)
	app.Get("/appointments", cfg.Appointments.List)
	app.Get("/appointments/user", authed, cfg.Appointments.ListMine)
	app.Get("/appointments/:id", cfg.Appointments.Get)
	app.Put("/appointments/:id", authed, cfg.Appointments.Update)
	app.Delete("/appointments/:id", authed, cfg.Appointments.Delete)
}
