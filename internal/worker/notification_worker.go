package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/service"
)

// StartNotificationWorker subscribes the notification fan-out to ticket events.
// A nil publisher keeps events in-process (logged only).
func StartNotificationWorker(dispatcher events.Dispatcher, publisher service.Publisher, logger *zap.Logger, cfg config.NotificationConfig) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}
	notificationService := service.NewNotificationService(dispatcher, publisher, logger, cfg)
	notificationService.RegisterHandlers()
	if logger != nil {
		logger.Info("notification worker started",
			zap.Bool("pubsub", publisher != nil),
			zap.String("channel", cfg.Channel))
	}
	return notificationService
}
