package pending

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// Provider resolves request identifiers to active tenants. Identifiers are tenant
// ids; pending and provisioning tenants are reported as not found.
func Provider(store Store) tenant.Provider {
	return tenant.ProviderFunc(func(ctx context.Context, identifier string) (*tenant.Tenant, error) {
		id, err := uuid.Parse(identifier)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a tenant id", tenant.ErrInvalidIdentifier, identifier)
		}
		return store.Get(ctx, id, tenant.ExcludePending)
	})
}
