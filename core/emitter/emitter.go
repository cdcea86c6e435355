package emitter

import "sync"

// Listener receives the payload of an emitted event.
type Listener func(payload any)

// Emitter is a minimal in-process event bus. Services emit lifecycle events
// ("documents.create", ...) and interested modules subscribe at startup.
type Emitter struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

// New creates an empty emitter.
func New() *Emitter {
	return &Emitter{
		listeners: make(map[string][]Listener),
	}
}

// On registers a listener for an event name.
func (e *Emitter) On(event string, listener Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], listener)
}

// Emit calls every listener registered for the event, synchronously and in
// registration order.
func (e *Emitter) Emit(event string, payload any) {
	e.mu.RLock()
	listeners := make([]Listener, len(e.listeners[event]))
	copy(listeners, e.listeners[event])
	e.mu.RUnlock()

	for _, listener := range listeners {
		listener(payload)
	}
}
