// Package observe provides a guarded value whose changes are pushed to
// subscribers.
package observe

import "sync"

// Value holds a T. Every committed change is delivered to subscribers in
// commit order, after the lock is released, so handlers may read the value
// again. Handlers must not update the same Value.
type Value[T any] struct {
	mu     sync.Mutex
	v      T
	nextID int
	subs   map[int]func(T)

	// emitMu serializes delivery so subscribers never see snapshots out of
	// order.
	emitMu sync.Mutex
}

// NewValue returns a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{v: initial, subs: make(map[int]func(T))}
}

// Get returns the current value.
func (o *Value[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.v
}

// Set replaces the value and notifies subscribers.
func (o *Value[T]) Set(v T) {
	o.Update(func(T) (T, bool) { return v, true })
}

// Update applies fn to the current value under the lock. Subscribers are
// notified only when fn reports a change; Update returns that report.
func (o *Value[T]) Update(fn func(cur T) (T, bool)) bool {
	o.emitMu.Lock()
	defer o.emitMu.Unlock()

	o.mu.Lock()
	next, changed := fn(o.v)
	if !changed {
		o.mu.Unlock()
		return false
	}
	o.v = next
	handlers := make([]func(T), 0, len(o.subs))
	for _, h := range o.subs {
		handlers = append(handlers, h)
	}
	o.mu.Unlock()

	for _, h := range handlers {
		h(next)
	}
	return true
}

// Subscribe registers fn and returns a function that removes it.
// fn is not called with the current value.
func (o *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextID
	o.nextID++
	if o.subs == nil {
		o.subs = make(map[int]func(T))
	}
	o.subs[id] = fn

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subs, id)
	}
}
