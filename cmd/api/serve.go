package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (default)",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	rt, err := loadRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.close()
	logger := rt.logger
	cfg := rt.cfg

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var publisher service.Publisher
	if redis.Enabled() {
		publisher = redis
	}
	worker.StartNotificationWorker(rt.dispatcher, publisher, logger, cfg.Notification)

	authService := rt.authService()
	if admin, created, err := authService.EnsureBootstrapAdmin(ctx); err != nil {
		logger.Error("failed to bootstrap admin", zap.Error(err))
		return err
	} else if created {
		logger.Info("created initial admin", zap.String("email", admin.Email))
	}

	app := httptransport.NewServer(httptransport.ServerDependencies{
		Config:      *cfg,
		Logger:      logger,
		Metrics:     observability.NewMetrics(),
		Postgres:    rt.postgres,
		Redis:       redis,
		AuthService: authService,
		TicketService: service.NewTicketService(service.TicketDependencies{
			TicketRepo:  rt.tickets,
			HistoryRepo: rt.history,
			Dispatcher:  rt.dispatcher,
			Tx:          rt.tx,
			SLA:         cfg.Tickets.SLA(),
		}),
		AssignmentService: service.NewAssignmentService(service.AssignmentDependencies{
			TicketRepo:  rt.tickets,
			UserRepo:    rt.users,
			HistoryRepo: rt.history,
			Dispatcher:  rt.dispatcher,
			Tx:          rt.tx,
		}),
		UserService: service.NewUserService(service.UserDependencies{
			UserRepo:   rt.users,
			BcryptCost: cfg.Auth.BcryptCost,
		}),
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("env", cfg.App.Env))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("fiber listen", zap.Error(err))
			return err
		}
	}

	return app.ShutdownWithTimeout(10 * time.Second)
}
