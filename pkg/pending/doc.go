// Package pending maintains a pool of pre-provisioned tenants.
//
// Creating a tenant can be slow: schemas get migrated, storage gets seeded. The pool
// does this work ahead of time, so signing up a customer only has to claim a
// tenant that is already ready.
//
// A tenant goes through three states:
//
//	provisioning -> pending -> active
//
// Provisioning tenants are invisible to every query. Pending tenants are only visible
// to queries that opt in with tenant.IncludePending or tenant.OnlyPending. Claiming
// moves a tenant from pending to active with a conditional update, so each pending
// tenant is handed out exactly once even when many callers race for it.
//
// Basic usage:
//
//	store := pending.NewPostgresStore(pool)
//	manager := pending.NewManager(store, pending.WithLogger(logger))
//
//	_ = manager.Dispatcher().Listen(pending.CreatingPendingTenant, func(ctx context.Context, e pending.Event) error {
//		return migrateTenantSchema(ctx, e.TenantID())
//	})
//
//	// Keep one tenant ready.
//	if _, err := manager.CreatePending(ctx, nil); err != nil {
//		return err
//	}
//
//	// On signup.
//	t, ok, err := manager.PullPending(ctx, true)
//
// A Maintainer refills the pool in the background:
//
//	go pending.NewMaintainer(manager, cfg).Run(ctx)
package pending
