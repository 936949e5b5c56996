package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/repository/memory"
	"github.com/spec-kit/helpdesk/internal/service"
)

var rootCmd = &cobra.Command{
	Use:           "helpdesk",
	Short:         "Helpdesk ticketing API",
	Long:          `Public ICT issue submission, staff assignment and resolution workflow.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedAdminCmd)
}

// deps holds the process-wide dependencies shared by every command.
type deps struct {
	cfg        *config.Config
	logger     *zap.Logger
	postgres   *persistence.Postgres
	users      repository.UserRepository
	tickets    repository.TicketRepository
	history    repository.TicketHistoryRepository
	tx         repository.Transactor
	dispatcher events.Dispatcher
}

// loadRuntime connects storage and picks the repository implementation.
// Migrations run when forced or when POSTGRES_RUN_MIGRATIONS is set.
func loadRuntime(ctx context.Context, forceMigrate bool) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Error("failed to connect postgres", zap.Error(err))
		return nil, err
	}
	if pg.Enabled() && (forceMigrate || cfg.Postgres.RunMigrations) {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			pg.Close()
			return nil, err
		}
	}

	rt := &deps{
		cfg:        cfg,
		logger:     logger,
		postgres:   pg,
		dispatcher: events.NewInMemoryDispatcher(),
	}
	if pg.Enabled() {
		pool := pg.PoolHandle()
		rt.users = repository.NewUserRepository(pool)
		rt.tickets = repository.NewTicketRepository(pool)
		rt.history = repository.NewTicketHistoryRepository(pool)
		rt.tx = repository.NewTransactor(pool)
	} else {
		logger.Warn("running with in-memory repositories; data is lost on exit")
		rt.users = memory.NewUserRepository()
		rt.tickets = memory.NewTicketRepository()
		rt.history = memory.NewTicketHistoryRepository()
	}
	return rt, nil
}

func (rt *deps) authService() *service.AuthService {
	return service.NewAuthService(*rt.cfg, service.AuthDependencies{UserRepo: rt.users, Logger: rt.logger})
}

func (rt *deps) close() {
	rt.postgres.Close()
	_ = rt.logger.Sync()
}
