// Package container provides a small service registry with named, rebindable slots
// and a memoizing accessor cache layered on top of it.
//
// A Container maps slot names to lazy singleton factories:
//
//	c := container.New()
//	_ = c.Bind("cache", func(*container.Container) (any, error) {
//		return cache.NewMemoryStore(1024), nil
//	})
//	store, err := container.Resolve[cache.Store](c, "cache")
//
// Rebind swaps the factory for a slot and drops its resolved instance. Scope copies
// the registry so a request or job can rebind slots without affecting other
// execution units:
//
//	reqC := c.Scope()
//	ctx = container.WithContainer(ctx, reqC)
//
// # Accessors
//
// Accessors memoize the first resolution of a slot, independently of the
// container. They model global accessors that keep returning a stale instance after
// the container is rebound. Anything that swaps bindings must Invalidate the slot:
//
//	acc := container.NewAccessors(reqC)
//	acc.Invalidate("cache")
//	reqC.Rebind("cache", container.Value(tenantStore))
package container
