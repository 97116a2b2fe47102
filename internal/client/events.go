package client

import "sync"

// SessionInvalidated is published when the server rejects the stored
// credential with 401. By the time handlers run the session keys have
// already been removed from the token store.
type SessionInvalidated struct {
	Scope   Scope
	Method  string
	Path    string
	Message string
}

// Events fans out client lifecycle events to subscribers such as the router.
type Events struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]func(SessionInvalidated)
}

// NewEvents creates an empty event hub.
func NewEvents() *Events {
	return &Events{handlers: make(map[int]func(SessionInvalidated))}
}

// OnSessionInvalidated registers fn and returns a func that removes it.
func (e *Events) OnSessionInvalidated(fn func(SessionInvalidated)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextID
	e.nextID++
	e.handlers[id] = fn

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers, id)
	}
}

func (e *Events) publish(ev SessionInvalidated) {
	e.mu.RLock()
	handlers := make([]func(SessionInvalidated), 0, len(e.handlers))
	for _, fn := range e.handlers {
		handlers = append(handlers, fn)
	}
	e.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
