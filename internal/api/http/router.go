package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/departments", handlers.ListDepartments)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	// Submission is public, so staff guards are attached per route rather
	// than as group middleware on /tickets.
	staff := func(h ...fiber.Handler) []fiber.Handler {
		return append([]fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireStaff()}, h...)
	}
	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", staff(cfg.Tickets.ListTickets)...)
	tickets.Get("/stats", staff(cfg.Tickets.Stats)...)
	tickets.Get("/:id", staff(cfg.Tickets.GetTicket)...)
	tickets.Put("/:id/assign", staff(auth.RequireAdmin(), cfg.StaffTickets.Assign)...)
	tickets.Put("/:id/resolve", staff(cfg.StaffTickets.Resolve)...)
	tickets.Put("/:id/delegate", staff(cfg.StaffTickets.Delegate)...)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	users.Post("/", cfg.Users.Create)
	users.Get("/", cfg.Users.List)
	users.Put("/:id", cfg.Users.Update)
	users.Delete("/:id", cfg.Users.Delete)
}
