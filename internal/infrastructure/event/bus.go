package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus implements shared.EventBus with in-process pub/sub.
// Handler failures are logged and never reach the publisher.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	async    bool

	// mu orders admission of async deliveries against Stop's wait
	mu      sync.RWMutex
	running bool
	wg      sync.WaitGroup
}

// Option configures an InMemoryEventBus
type Option func(*InMemoryEventBus)

// WithAsync delivers events from background goroutines; Stop waits for them
func WithAsync(async bool) Option {
	return func(b *InMemoryEventBus) {
		b.async = async
	}
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...Option) *InMemoryEventBus {
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.running = true
	return b
}

// Publish hands events to every subscribed handler
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	type delivery struct {
		handler shared.EventHandler
		event   shared.DomainEvent
	}
	var deliveries []delivery
	for _, event := range events {
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			deliveries = append(deliveries, delivery{handler, event})
		}
	}

	if !b.admit(len(deliveries)) {
		b.logger.Warn("event bus stopped, dropping events", zap.Int("count", len(events)))
		return nil
	}

	for _, d := range deliveries {
		if !b.async {
			b.dispatch(ctx, d.handler, d.event)
			continue
		}
		go func(h shared.EventHandler, e shared.DomainEvent) {
			defer b.wg.Done()
			// the request that published may finish first
			b.dispatch(context.WithoutCancel(ctx), h, e)
		}(d.handler, d.event)
	}
	return nil
}

// admit reports whether the bus accepts events and, when async, reserves n
// deliveries on the wait group before Stop can start waiting.
func (b *InMemoryEventBus) admit(n int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.running {
		return false
	}
	if b.async && n > 0 {
		b.wg.Add(n)
	}
	return true
}

// Subscribe registers a handler for specific event types
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Stop refuses new events and waits for in-flight deliveries or ctx
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	b.running = false
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop: %w", ctx.Err())
	}
}

// dispatch runs one handler, containing errors and panics
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Any("panic", r),
			)
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		b.logger.Error("handler failed to process event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
	}
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
