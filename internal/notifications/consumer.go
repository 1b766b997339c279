package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/metapharm/metapharm-backend/pkg/db/models"
	"github.com/metapharm/metapharm-backend/pkg/enums"
	"github.com/metapharm/metapharm-backend/pkg/logger"
	"github.com/metapharm/metapharm-backend/pkg/metrics"
	"github.com/metapharm/metapharm-backend/pkg/outbox"
	"github.com/metapharm/metapharm-backend/pkg/outbox/idempotency"
	"github.com/metapharm/metapharm-backend/pkg/outbox/payloads"
)

const orderNotificationConsumer = "order-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches order events and writes per-pharmacy inbox rows so
// dashboards see new orders and status changes without polling the sales
// tables directly.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	consumerMet  *metrics.ConsumerMetrics
	logg         *logger.Logger
}

// NewConsumer builds an order notification consumer. Metrics may be nil.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, consumerMet *metrics.ConsumerMetrics, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("orders subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		consumerMet:  consumerMet,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg.Attributes["event_type"], msg.ID, msg.Data)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, eventType, messageID string, data []byte) processResult {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": messageID,
		"event_type": eventType,
	})

	if eventType != string(enums.EventOrderCreated) && eventType != string(enums.EventOrderStatusChanged) {
		c.logg.Info(logCtx, "skipping non-order event")
		c.consumerMet.IncEvent(eventType, "skipped")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		c.consumerMet.IncEvent(eventType, "malformed")
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		c.consumerMet.IncEvent(eventType, "malformed")
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, orderNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		c.consumerMet.IncEvent(eventType, "retried")
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		c.consumerMet.IncEvent(eventType, "duplicate")
		return processResult{ack: true}
	}

	if err := c.handleEvent(ctx, eventType, envelope.Data, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, orderNotificationConsumer, eventID)
		c.consumerMet.IncEvent(eventType, "retried")
		return processResult{nack: true}
	}

	c.consumerMet.IncEvent(eventType, "processed")
	return processResult{ack: true}
}

func (c *Consumer) handleEvent(ctx context.Context, eventType string, data json.RawMessage, logCtx context.Context) error {
	switch eventType {
	case string(enums.EventOrderCreated):
		var payload payloads.OrderCreatedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse order created payload: %w", err)
		}
		return c.createdNotification(ctx, payload, logCtx)
	case string(enums.EventOrderStatusChanged):
		var payload payloads.OrderStatusChangedEvent
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("parse status changed payload: %w", err)
		}
		return c.statusNotification(ctx, payload, logCtx)
	default:
		return nil
	}
}

func (c *Consumer) createdNotification(ctx context.Context, payload payloads.OrderCreatedEvent, logCtx context.Context) error {
	if payload.PharmacyID == uuid.Nil || payload.SaleID == uuid.Nil {
		return fmt.Errorf("pharmacy or sale id missing")
	}
	saleID := payload.SaleID
	notification := &models.Notification{
		PharmacyID: payload.PharmacyID,
		Kind:       enums.NotificationKindOrderCreated,
		Title:      "New order received",
		Body:       fmt.Sprintf("A new order of %d item(s) for %d FCFA is waiting for confirmation.", payload.ItemCount, payload.TotalAmount),
		SaleID:     &saleID,
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(c.logg.WithField(logCtx, "sale_id", saleID.String()), "pharmacy notified of new order")
	return nil
}

func (c *Consumer) statusNotification(ctx context.Context, payload payloads.OrderStatusChangedEvent, logCtx context.Context) error {
	if payload.PharmacyID == uuid.Nil || payload.SaleID == uuid.Nil {
		return fmt.Errorf("pharmacy or sale id missing")
	}
	saleID := payload.SaleID
	notification := &models.Notification{
		PharmacyID: payload.PharmacyID,
		Kind:       enums.NotificationKindOrderStatusChanged,
		Title:      "Order status updated",
		Body:       fmt.Sprintf("Order %s moved from %s to %s.", shortID(saleID), payload.From, payload.To),
		SaleID:     &saleID,
	}
	if err := c.repo.Create(ctx, notification); err != nil {
		return err
	}
	c.logg.Info(c.logg.WithFields(logCtx, map[string]any{
		"sale_id": saleID.String(),
		"status":  payload.To.String(),
	}), "pharmacy notified of status change")
	return nil
}

// shortID keeps notification bodies readable, full IDs stay on the row.
func shortID(id uuid.UUID) string {
	s := id.String()
	return s[:8]
}
