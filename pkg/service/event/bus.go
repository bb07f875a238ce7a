package event

import (
	"context"
	"sync"

	"github.com/secmon-lab/briareus/pkg/domain/model"
	"github.com/secmon-lab/briareus/pkg/utils/async"
)

// Handler consumes a transition event.
type Handler func(ctx context.Context, ev model.TransitionEvent) error

// Bus routes transition events from the lifecycle managers to their
// subscribers. Publication is fire-and-forget: a failing or panicking
// handler never propagates back into the transition that emitted the event.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	sync     bool
}

// Option configures a Bus
type Option func(*Bus)

// WithSync makes Publish run handlers inline instead of dispatching a
// goroutine. Handler errors are still swallowed. Intended for tests.
func WithSync() Option {
	return func(b *Bus) {
		b.sync = true
	}
}

func New(opts ...Option) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a handler for all published events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers the event to every subscriber.
func (b *Bus) Publish(ctx context.Context, ev model.TransitionEvent) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		handler := h
		if b.sync {
			_ = handler(ctx, ev)
			continue
		}
		async.Dispatch(ctx, func(ctx context.Context) error {
			return handler(ctx, ev)
		})
	}
}
