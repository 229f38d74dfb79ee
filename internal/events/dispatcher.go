package events

import (
	"context"
	"slices"
	"sync"
)

// EventHandler reacts to a published event. Returning an error marks the
// handler as failed but never affects the publisher or sibling handlers.
type EventHandler func(context.Context, Event) error

// Dispatcher fans domain events out to registered handlers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

type inMemoryDispatcher struct {
	mu          sync.RWMutex
	subscribers map[EventType][]EventHandler
}

// NewInMemoryDispatcher returns a synchronous in-process dispatcher.
// Handlers run on the publisher's goroutine, so side effects such as
// notification rows are visible as soon as Publish returns.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{subscribers: make(map[EventType][]EventHandler)}
}

func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := slices.Clone(d.subscribers[event.Type])
	d.mu.RUnlock()

	// Handler failures are the handler's problem; the rest still run.
	for _, handler := range handlers {
		_ = handler(ctx, event)
	}
	return nil
}

func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers[eventType] = append(d.subscribers[eventType], handler)
}
