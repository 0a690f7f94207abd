package shared

import "context"

// EventHandler reacts to published domain events. EventTypes lists what it
// wants; the bus uses it when Subscribe is called without explicit types.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher is what application services depend on
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the process-wide dispatcher wired in cmd/server
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	// Stop refuses new events and drains deliveries in flight
	Stop(ctx context.Context) error
}
