package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hotelops/housekeeping/internal/api/http/handlers"
	"github.com/hotelops/housekeeping/internal/auth"
	"github.com/hotelops/housekeeping/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Requests       *handlers.RequestsHandler
	Users          *handlers.UsersHandler
	Assignments    *handlers.AssignmentsHandler
	Striper        *handlers.StriperHandler
	Views          *handlers.ViewsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireRole())
	supervisor := auth.RequireRole(domain.UserRoleSupervisor)

	api.Get("/requests", cfg.Requests.List)
	api.Post("/requests", cfg.Requests.Create)
	api.Get("/requests/:id", cfg.Requests.Get)
	api.Patch("/requests/:id", cfg.Requests.Update)
	api.Delete("/requests/:id", cfg.Requests.Delete)

	api.Get("/users", cfg.Users.List)
	api.Post("/users", supervisor, cfg.Users.Create)
	api.Patch("/users/:id", supervisor, cfg.Users.Update)

	api.Get("/assignments", cfg.Assignments.List)
	api.Post("/assignments", cfg.Assignments.Assign)

	api.Get("/striper", cfg.Striper.List)
	api.Post("/striper", cfg.Striper.Create)

	api.Get("/queue", cfg.Views.Queue)
	api.Get("/stats", cfg.Views.Stats)
}
