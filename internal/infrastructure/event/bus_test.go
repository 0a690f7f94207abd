package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Order", uuid.New())}
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) handler(types ...string) *HandlerFunc {
	return &HandlerFunc{Types: types, Fn: func(ctx context.Context, e shared.DomainEvent) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, e.EventType())
		return nil
	}}
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	rec := &recorder{}

	bus.Subscribe(rec.handler("OrderPlaced"))
	all := &recorder{}
	bus.Subscribe(all.handler())

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced"), newTestEvent("ShopStateChanged")))

	assert.Equal(t, []string{"OrderPlaced"}, rec.seen())
	assert.Equal(t, []string{"OrderPlaced", "ShopStateChanged"}, all.seen())
}

func TestInMemoryEventBus_HandlerFailuresAreContained(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	bus.Subscribe(&HandlerFunc{Types: []string{"OrderPlaced"}, Fn: func(context.Context, shared.DomainEvent) error {
		return errors.New("broker down")
	}})
	bus.Subscribe(&HandlerFunc{Types: []string{"OrderPlaced"}, Fn: func(context.Context, shared.DomainEvent) error {
		panic("boom")
	}})
	rec := &recorder{}
	bus.Subscribe(rec.handler("OrderPlaced"))

	err := bus.Publish(context.Background(), newTestEvent("OrderPlaced"))

	assert.NoError(t, err)
	assert.Equal(t, []string{"OrderPlaced"}, rec.seen())
	assert.Equal(t, 1, logs.FilterMessage("handler failed to process event").Len())
	assert.Equal(t, 1, logs.FilterMessage("handler panicked").Len())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	rec := &recorder{}
	h := rec.handler("OrderPlaced")
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced")))
	assert.Empty(t, rec.seen())
}

func TestInMemoryEventBus_Async(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsync(true))
	rec := &recorder{}
	bus.Subscribe(rec.handler("OrderPlaced"))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPlaced")))
	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, bus.Stop(stopCtx))
	assert.Equal(t, []string{"OrderPlaced"}, rec.seen())

	t.Run("stopped bus drops events", func(t *testing.T) {
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPlaced")))
		require.NoError(t, bus.Stop(stopCtx))
		assert.Len(t, rec.seen(), 1)
	})
}

func TestInMemoryEventBus_StopRacesPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsync(true))
	rec := &recorder{}
	bus.Subscribe(rec.handler("OrderPlaced"))

	var publishers sync.WaitGroup
	for i := 0; i < 8; i++ {
		publishers.Add(1)
		go func() {
			defer publishers.Done()
			for j := 0; j < 50; j++ {
				_ = bus.Publish(context.Background(), newTestEvent("OrderPlaced"))
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
	delivered := len(rec.seen())

	publishers.Wait()
	assert.Equal(t, delivered, len(rec.seen()), "no delivery starts after Stop returns")
}
