package cache

import (
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/tenantkit/pkg/tenancy"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// TenantPrefix returns the key namespace for t.
func TenantPrefix(t *tenant.Tenant) string {
	return "tenant_" + t.ID.String() + ":"
}

// TenantScoped returns a factory deriving a tenant-namespaced store from the shared one.
func TenantScoped() tenancy.ScopedFactory {
	return func(original any, t *tenant.Tenant) (any, error) {
		prefix := TenantPrefix(t)
		switch s := original.(type) {
		case *RedisStore:
			return s.WithPrefix(prefix), nil
		case *MemoryStore:
			return s.WithPrefix(prefix), nil
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnknownStore, original)
		}
	}
}

// NewBootstrapper returns a switcher that scopes the cache slot to the current tenant.
func NewBootstrapper(reg tenancy.Registry, acc tenancy.AccessorCache, logger *slog.Logger) *tenancy.Switcher {
	return tenancy.NewSwitcher(Slot, reg, TenantScoped(),
		tenancy.WithAccessors(acc),
		tenancy.WithSwitcherLogger(logger),
	)
}
