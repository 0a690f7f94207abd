package notification

import (
	"context"

	"github.com/b2bprocure/backend/internal/domain/trade"
	"github.com/b2bprocure/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// LogNotifier writes notices to the application log
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyOrderPlaced logs the placed order
func (n *LogNotifier) NotifyOrderPlaced(ctx context.Context, event *trade.OrderPlacedEvent) error {
	logger.Or(ctx, n.logger).Info("New order placed",
		zap.String("order_id", event.OrderID.String()),
		zap.String("user_id", event.UserID.String()),
		zap.String("contact_id", event.ContactID.String()),
	)
	return nil
}
