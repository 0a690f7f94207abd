package trade

import "context"

// Notifier tells the outside world that an order was placed
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, event *OrderPlacedEvent) error
}
