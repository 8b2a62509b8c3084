package container

import (
	"errors"
	"fmt"
	"sync"
)

// Factory builds the instance for a slot. It receives the container that resolves it,
// so factories may depend on other slots.
type Factory func(c *Container) (any, error)

// Value returns a factory that always yields v.
func Value(v any) Factory {
	return func(*Container) (any, error) { return v, nil }
}

type binding struct {
	factory  Factory
	resolved bool
	instance any
}

// Container is a registry of named, rebindable service slots.
// Bindings are lazy singletons: a factory runs on the first Get and the
// instance is reused until the slot is rebound. All methods are safe for concurrent use.
type Container struct {
	mu       sync.RWMutex
	bindings map[string]*binding
}

// New creates an empty container.
func New() *Container {
	return &Container{bindings: make(map[string]*binding)}
}

// Bind registers a lazy singleton factory for slot, replacing any existing binding.
func (c *Container) Bind(slot string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("%w: slot %q", ErrNilFactory, slot)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[slot] = &binding{factory: factory}
	return nil
}

// Instance binds an already built instance to slot.
func (c *Container) Instance(slot string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[slot] = &binding{factory: Value(v), resolved: true, instance: v}
}

// Rebind replaces the binding for slot and drops the resolved instance, so the
// next Get runs the new factory. Rebinding an unbound slot binds it.
func (c *Container) Rebind(slot string, factory Factory) {
	if factory == nil {
		factory = Value(nil)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[slot] = &binding{factory: factory}
}

// Has reports whether slot is bound.
func (c *Container) Has(slot string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.bindings[slot]
	return ok
}

// Forget removes the binding for slot.
func (c *Container) Forget(slot string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.bindings, slot)
}

// Get returns the instance bound to slot, running its factory on first use.
func (c *Container) Get(slot string) (any, error) {
	c.mu.RLock()
	b, ok := c.bindings[slot]
	if ok && b.resolved {
		v := b.instance
		c.mu.RUnlock()
		return v, nil
	}
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotBound, slot)
	}

	// The factory runs outside the lock so it can resolve other slots.
	v, err := b.factory(c)
	if err != nil {
		return nil, fmt.Errorf("container: resolve %q: %w", slot, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	current, ok := c.bindings[slot]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotBound, slot)
	}
	if current != b {
		// Rebound while the factory ran; the instance belongs to a stale binding.
		if current.resolved {
			return current.instance, nil
		}
		return v, nil
	}
	if b.resolved {
		// Another goroutine won the race; keep a single singleton.
		return b.instance, nil
	}
	b.resolved = true
	b.instance = v
	return v, nil
}

// Scope returns a child container with a copy of the current bindings,
// including resolved instances. Changes to the child never reach the parent,
// which gives each request or job its own registry.
func (c *Container) Scope() *Container {
	c.mu.RLock()
	defer c.mu.RUnlock()
	child := &Container{bindings: make(map[string]*binding, len(c.bindings))}
	for slot, b := range c.bindings {
		cp := *b
		child.bindings[slot] = &cp
	}
	return child
}

// Resolve returns the instance bound to slot as T.
func Resolve[T any](c *Container, slot string) (T, error) {
	var zero T
	v, err := c.Get(slot)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, errors.Join(ErrTypeMismatch, fmt.Errorf("slot %q holds %T, want %T", slot, v, zero))
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error. Use during bootstrap only.
func MustResolve[T any](c *Container, slot string) T {
	v, err := Resolve[T](c, slot)
	if err != nil {
		panic(err)
	}
	return v
}
