package identity

import (
	"context"
	"sync"
)

// Listener is notified with the new identity after a change.
type Listener func(ctx context.Context, id Identity)

// Holder keeps the current identity of one device and notifies subscribers on change.
type Holder struct {
	mu        sync.Mutex
	current   Identity
	nextID    int
	listeners map[int]Listener
}

func NewHolder(initial Identity) *Holder {
	return &Holder{current: initial, listeners: map[int]Listener{}}
}

func (h *Holder) Current() Identity {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Set replaces the identity. Listeners run synchronously, outside the lock, and only when
// the identity actually changed. It reports whether a change happened. Concurrent Sets may
// notify in a different order than they updated; callers that need the two to agree
// serialize their calls.
func (h *Holder) Set(ctx context.Context, id Identity) bool {
	h.mu.Lock()
	if h.current.Equal(id) {
		h.mu.Unlock()
		return false
	}
	h.current = id
	listeners := make([]Listener, 0, len(h.listeners))
	for i := 0; i < h.nextID; i++ {
		if l, ok := h.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	h.mu.Unlock()

	for _, l := range listeners {
		l(ctx, id)
	}
	return true
}

// Subscribe registers l and returns a function that removes it.
func (h *Holder) Subscribe(l Listener) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = l
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}
