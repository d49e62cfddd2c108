package events

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"raf_pnp_backend/platform/logger"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func newBus() *InMemoryBus {
	return NewInMemoryBus(logger.NewWithWriter("production", io.Discard))
}

func TestPublishRunsEverySubscriberDespiteCancelledContext(t *testing.T) {
	bus := newBus()
	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, _ Event) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			calls.Add(1)
			return nil
		}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})
	cancel()

	waitCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	if err := bus.Drain(waitCtx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 deliveries, got %d", calls.Load())
	}
}

func TestPublishAbsorbsHandlerFailures(t *testing.T) {
	bus := newBus()
	var delivered atomic.Bool
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		return errors.New("boom")
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		panic("handler bug")
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		delivered.Store(true)
		return nil
	}))

	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})

	waitCtx, stop := context.WithTimeout(context.Background(), 2*time.Second)
	defer stop()
	if err := bus.Drain(waitCtx); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if !delivered.Load() {
		t.Fatal("healthy subscriber should still receive the event")
	}
}

func TestDrainHonoursDeadline(t *testing.T) {
	bus := newBus()
	release := make(chan struct{})
	bus.Subscribe("test.ping", HandlerFunc(func(context.Context, Event) error {
		<-release
		return nil
	}))
	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := bus.Drain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	close(release)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := newBus()
	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	if err := bus.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
}
