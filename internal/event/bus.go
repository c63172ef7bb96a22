// bus.go implements the in-process event bus.
//
// Publish is synchronous: handlers run on the publishing goroutine at the
// commit point of the operation that fired them, so subscribers never see
// a torn intermediate state. Handlers must not call back into the
// publishing component from inside a handler.

package event

import "sync"

// Handler receives published events.
type Handler func(Event)

// Bus fans events out to subscribers.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all subsequent events. There is no
// unsubscribe: subscribers live as long as the workspace.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers e to every subscriber in registration order. Safe to
// call on a nil bus (components constructed without one stay silent).
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
