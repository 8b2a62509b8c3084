// Package tenancy switches process-wide services into a tenant's context and back.
//
// A Switcher manages one registry slot. Enter captures the shared instance (only
// once, so repeated Enter calls keep the true original) and rebinds the slot to a
// tenant-scoped instance built by a ScopedFactory. Leave restores the captured
// instance. Both invalidate the accessor cache before and after the rebind. Leave without a matching Enter returns ErrUnbalancedContextExit
// and leaves the registry untouched.
//
//	reg := container.New()
//	reg.Instance(cache.Slot, sharedStore)
//	acc := container.NewAccessors(reg)
//
//	sw := tenancy.NewSwitcher(cache.Slot, reg, cache.TenantScoped(), tenancy.WithAccessors(acc))
//	if err := sw.Enter(ctx, t); err != nil {
//		return err
//	}
//	defer sw.Leave(ctx)
//
// # Tenancy
//
// Tenancy groups several bootstrappers for one execution unit. Initialize runs them in
// order, End reverts them in reverse. Run wraps a function with both.
//
// # Concurrency
//
// A Switcher and a Tenancy belong to a single execution unit. The registry they
// rebind must not be shared with concurrently running units; Middleware gives every
// request its own container scope and carries it in the request context.
package tenancy
