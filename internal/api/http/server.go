package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/service"
)

// ServerDependencies bundles everything the HTTP layer needs.
type ServerDependencies struct {
	Config            config.Config
	Logger            *zap.Logger
	Metrics           *observability.Metrics
	Postgres          *persistence.Postgres
	Redis             *persistence.Redis
	AuthService       *service.AuthService
	TicketService     *service.TicketService
	AssignmentService *service.AssignmentService
	UserService       *service.UserService
}

// NewServer builds the fiber app with middleware and routes registered.
func NewServer(deps ServerDependencies) *fiber.App {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               deps.Config.App.Name,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})
	RegisterMiddlewares(app, logger, deps.Metrics, MiddlewareConfig{
		Timeout:      deps.Config.App.RequestTimeout(),
		AllowOrigins: deps.Config.App.CORSAllowOrigins,
	})
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(deps.Config.App.Name, deps.Config.App.Version, deps.Postgres, deps.Redis, deps.Metrics),
		Auth:           handlers.NewAuthHandler(deps.AuthService),
		Tickets:        handlers.NewTicketsHandler(deps.TicketService),
		StaffTickets:   handlers.NewStaffTicketsHandler(deps.AssignmentService),
		Users:          handlers.NewUsersHandler(deps.UserService),
		AuthMiddleware: auth.NewAuthMiddleware(deps.AuthService.TokenManager()),
	})
	return app
}
