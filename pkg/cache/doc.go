// Package cache provides the cache Store that tenancy swaps per tenant.
//
// Two implementations share the Store interface: RedisStore over go-redis and
// MemoryStore over an in-process LRU with TTL. Both derive namespaced copies with
// WithPrefix, which is how tenant isolation works: a tenant-scoped store prefixes
// every key with "tenant_<id>:" and a Flush only ever touches its own prefix.
//
// # Tenancy
//
//	reg := container.New()
//	reg.Instance(cache.Slot, cache.NewRedisStore(client))
//	acc := container.NewAccessors(reg)
//
//	bs := cache.NewBootstrapper(reg, acc, logger)
//	tn := tenancy.New(tenancy.WithBootstrappers(bs))
//	_ = tn.Run(ctx, t, func(ctx context.Context) error {
//		store, _ := container.AccessorFor[cache.Store](acc, cache.Slot)
//		return store.Set(ctx, "greeting", []byte("hi"), time.Minute) // tenant_<id>:greeting
//	})
//
// # Tenant lookups
//
// ProviderCache wraps a tenant.Provider and remembers active tenants for a TTL, so
// tenant-scoped requests skip the store round-trip. Misses and pending tenants are
// always looked up again.
package cache
