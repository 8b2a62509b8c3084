package container

import (
	"errors"
	"fmt"
	"sync"
)

// Accessors memoizes resolved instances per slot on top of a container.
// Once a slot is read through Accessors, later rebinds in the container are not
// observed until the slot is invalidated. Code that swaps bindings must call
// Invalidate before and after the swap.
type Accessors struct {
	mu       sync.RWMutex
	c        *Container
	resolved map[string]any
}

// NewAccessors creates an accessor cache over c.
func NewAccessors(c *Container) *Accessors {
	return &Accessors{c: c, resolved: make(map[string]any)}
}

// Container returns the container the accessors resolve from.
func (a *Accessors) Container() *Container {
	return a.c
}

// Get returns the memoized instance for slot, resolving it from the container on first use.
func (a *Accessors) Get(slot string) (any, error) {
	a.mu.RLock()
	v, ok := a.resolved[slot]
	a.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err := a.c.Get(slot)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if cached, ok := a.resolved[slot]; ok {
		return cached, nil
	}
	a.resolved[slot] = v
	return v, nil
}

// Invalidate drops the memoized instance for slot.
func (a *Accessors) Invalidate(slot string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.resolved, slot)
}

// InvalidateAll drops every memoized instance.
func (a *Accessors) InvalidateAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	clear(a.resolved)
}

// Cached reports whether slot currently has a memoized instance.
func (a *Accessors) Cached(slot string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.resolved[slot]
	return ok
}

// AccessorFor returns the memoized instance for slot as T.
func AccessorFor[T any](a *Accessors, slot string) (T, error) {
	var zero T
	v, err := a.Get(slot)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.Join(ErrTypeMismatch, fmt.Errorf("slot %q holds %T, want %T", slot, v, zero))
	}
	return typed, nil
}
