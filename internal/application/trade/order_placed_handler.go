package trade

import (
	"context"
	"fmt"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/b2bprocure/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderPlacedHandler forwards OrderPlacedEvent to the notification collaborator.
// It runs after the submit transaction has committed; a failure here never undoes the order.
type OrderPlacedHandler struct {
	notifier trade.Notifier
	logger   *zap.Logger
}

// NewOrderPlacedHandler creates a new OrderPlacedHandler
func NewOrderPlacedHandler(notifier trade.Notifier, logger *zap.Logger) *OrderPlacedHandler {
	return &OrderPlacedHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced}
}

// Handle sends the new-order notice
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*trade.OrderPlacedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			trade.EventTypeOrderPlaced, event.EventType())
	}

	if err := h.notifier.NotifyOrderPlaced(ctx, placed); err != nil {
		return fmt.Errorf("notify order %s placed: %w", placed.OrderID, err)
	}

	h.logger.Debug("order placed notice sent",
		zap.String("order_id", placed.OrderID.String()),
		zap.String("user_id", placed.UserID.String()),
	)
	return nil
}
