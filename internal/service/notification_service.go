package service

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hotelops/housekeeping/internal/config"
	"github.com/hotelops/housekeeping/internal/events"
)

// NotificationService logs lifecycle events and forwards them to the notification webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRequestCreated, n.handleRequestCreated)
	n.dispatcher.Subscribe(events.EventRequestStatusChanged, n.handleRequestStatusChanged)
	n.dispatcher.Subscribe(events.EventRequestAssigned, n.handleRequestAssigned)
	n.dispatcher.Subscribe(events.EventRequestDeleted, n.handleRequestDeleted)
}

func (n *NotificationService) handleRequestCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("RequestCreated", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.deliverWebhook(ctx, event)
	return nil
}

func (n *NotificationService) handleRequestStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("RequestStatusChanged", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.deliverWebhook(ctx, event)
	return nil
}

func (n *NotificationService) handleRequestAssigned(ctx context.Context, event events.Event) error {
	n.logger.Info("RequestAssigned", zap.String("request_id", event.RequestID), zap.Any("payload", event.Payload))
	n.deliverWebhook(ctx, event)
	return nil
}

func (n *NotificationService) handleRequestDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("RequestDeleted", zap.String("request_id", event.RequestID))
	return nil
}

// deliverWebhook posts the event as JSON to the configured URL.
// Failures are logged and never fail the publishing operation.
func (n *NotificationService) deliverWebhook(_ context.Context, event events.Event) {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return
	}
	fields := []zap.Field{
		zap.String("url", url),
		zap.String("request_id", event.RequestID),
		zap.String("event_type", string(event.Type)),
	}

	agent := fiber.Post(url).JSON(event).Timeout(n.cfg.WebhookTimeout())
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		n.logger.Warn("webhook delivery failed", append(fields, zap.Error(err))...)
		return
	}
	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		n.logger.Warn("webhook delivery failed", append(fields, zap.Errors("errors", errs))...)
		return
	}
	if status < 200 || status >= 300 {
		n.logger.Warn("webhook rejected event", append(fields, zap.Int("status", status))...)
		return
	}
	n.logger.Debug("webhook delivered", append(fields, zap.Int("status", status))...)
}
