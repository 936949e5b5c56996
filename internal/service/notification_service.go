package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
)

// Publisher pushes a payload onto a pub/sub channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService fans ticket events out to the log and the pub/sub channel.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  Publisher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service. publisher may be nil.
func NewNotificationService(dispatcher events.Dispatcher, publisher Publisher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	events.SubscribeAll(n.dispatcher, n.handleTicketEvent, events.TicketEventTypes...)
}

func (n *NotificationService) handleTicketEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("ticket event",
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor", event.Actor.Name),
		zap.Any("payload", event.Payload))
	n.broadcast(ctx, event)
	return nil
}

func (n *NotificationService) broadcast(ctx context.Context, event events.Event) {
	if n.publisher == nil || n.cfg.Channel == "" {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("encode ticket event", zap.String("ticket_id", event.TicketID), zap.Error(err))
		return
	}
	if err := n.publisher.Publish(ctx, n.cfg.Channel, body); err != nil {
		n.logger.Warn("publish ticket event",
			zap.String("channel", n.cfg.Channel),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err))
	}
}
