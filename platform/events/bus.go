package events

import (
	"context"
	"sync"

	"raf_pnp_backend/platform/logger"
)

// InMemoryBus delivers each event to its subscribers on separate goroutines.
type InMemoryBus struct {
	log *logger.Logger

	mu       sync.RWMutex
	handlers map[string][]Handler

	inflight sync.WaitGroup
}

// NewInMemoryBus returns a bus with no subscribers.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{log: log, handlers: make(map[string][]Handler)}
}

// Subscribe adds handler for events named eventName.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
	b.mu.Unlock()
}

// Publish returns immediately. Handlers run with a context detached from
// the caller's cancellation so a finished request does not abort delivery.
// Errors and panics are logged and otherwise dropped.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	subscribers := append([]Handler(nil), b.handlers[event.EventName()]...)
	b.mu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	for _, h := range subscribers {
		b.inflight.Add(1)
		go b.deliver(ctx, h, event)
	}
}

func (b *InMemoryBus) deliver(ctx context.Context, h Handler, event Event) {
	defer b.inflight.Done()
	defer func() {
		if r := recover(); r != nil {
			b.log.WithContext(ctx).Error("event handler panicked", "event", event.EventName(), "panic", r)
		}
	}()
	if err := h.Handle(ctx, event); err != nil {
		b.log.WithContext(ctx).Error("event handler failed", "event", event.EventName(), "error", err)
	}
}

// Drain waits for in-flight handlers to return or for ctx to end, and
// reports ctx.Err() in the latter case. Used during shutdown.
func (b *InMemoryBus) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Bus = (*InMemoryBus)(nil)
