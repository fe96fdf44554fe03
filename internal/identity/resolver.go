// Package identity tracks who is using a device and notifies observers
// when that changes.
package identity

import (
	"context"
	"sync"

	"github.com/nikolayk812/grocery-cart/internal/domain"
)

// Listener is called once per transition, after the resolver already
// reports next as current. It must not call Set on the same resolver.
type Listener func(ctx context.Context, prev, next domain.Identity)

type Resolver struct {
	// serialises transitions so listeners observe them in order
	transition sync.Mutex

	mu        sync.RWMutex
	current   domain.Identity
	listeners map[uint64]Listener
	order     []uint64
	nextID    uint64
}

func NewResolver(initial domain.Identity) *Resolver {
	return &Resolver{
		current:   initial,
		listeners: make(map[uint64]Listener),
	}
}

func (r *Resolver) Current() domain.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.current
}

// Subscribe registers l for future transitions. Listeners run in
// subscription order.
func (r *Resolver) Subscribe(l Listener) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++
	r.listeners[id] = l
	r.order = append(r.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()

			delete(r.listeners, id)
			for i, v := range r.order {
				if v == id {
					r.order = append(r.order[:i], r.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Set reports whether the identity changed. Setting the current identity
// again is not a transition and notifies nobody.
func (r *Resolver) Set(ctx context.Context, next domain.Identity) bool {
	r.transition.Lock()
	defer r.transition.Unlock()

	r.mu.Lock()
	prev := r.current
	if prev == next {
		r.mu.Unlock()
		return false
	}
	r.current = next

	listeners := make([]Listener, 0, len(r.order))
	for _, id := range r.order {
		listeners = append(listeners, r.listeners[id])
	}
	r.mu.Unlock()

	for _, l := range listeners {
		l(ctx, prev, next)
	}

	return true
}
