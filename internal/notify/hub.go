// Package notify holds the in-memory registry of storefront viewers
// listening for catalog changes. The registry is process-local and resets
// on restart; every viewer must resubscribe after a deploy.
package notify

import (
	"errors"
	"sync"
)

// MaxSubscribers bounds the registry; connections beyond it are rejected.
const MaxSubscribers = 1000

var ErrRegistryFull = errors.New("too many subscribers")

// Subscriber receives one signal per catalog change. The channel is
// buffered; a slow consumer misses coalesced signals rather than blocking
// catalog mutations.
type Subscriber struct {
	C  chan struct{}
	id uint64
}

// Hub fans a "something changed" signal out to all current subscribers.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*Subscriber
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*Subscriber)}
}

// Subscribe registers a new listener. Returns ErrRegistryFull when the
// registry is at capacity; existing subscribers are unaffected.
func (h *Hub) Subscribe() (*Subscriber, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.subs) >= MaxSubscribers {
		return nil, ErrRegistryFull
	}

	h.nextID++
	sub := &Subscriber{
		C:  make(chan struct{}, 1),
		id: h.nextID,
	}
	h.subs[sub.id] = sub
	return sub, nil
}

// Unsubscribe removes exactly one subscriber. Safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, sub.id)
}

// Notify pushes a signal to every subscriber without blocking. A subscriber
// whose buffer is full already has a pending signal, so the push is dropped.
func (h *Hub) Notify() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		select {
		case sub.C <- struct{}{}:
		default:
		}
	}
}

// Len reports the current number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
