package cache

import (
	"context"
	"time"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

// DefaultProviderCacheSize is the default maximum number of cached tenants.
const DefaultProviderCacheSize = 1000

// DefaultProviderCacheTTL is how long a cached tenant is served without a lookup.
const DefaultProviderCacheTTL = time.Minute

// ProviderCache is a tenant.Provider that remembers active tenants returned by
// the wrapped provider. Lookup errors and tenants that are not active are never
// cached: a pending tenant becomes reachable as soon as it is claimed.
type ProviderCache struct {
	next    tenant.Provider
	tenants *LRUCache[string, *tenant.Tenant]
	ttl     time.Duration
}

// NewProviderCache wraps next. A non-positive size falls back to
// DefaultProviderCacheSize; a non-positive ttl keeps entries until evicted.
func NewProviderCache(next tenant.Provider, size int, ttl time.Duration) *ProviderCache {
	if next == nil {
		panic("cache: provider cannot be nil")
	}
	if size <= 0 {
		size = DefaultProviderCacheSize
	}
	return &ProviderCache{
		next:    next,
		tenants: NewLRUCache[string, *tenant.Tenant](size),
		ttl:     ttl,
	}
}

// GetByIdentifier implements tenant.Provider.
func (p *ProviderCache) GetByIdentifier(ctx context.Context, identifier string) (*tenant.Tenant, error) {
	if t, ok := p.tenants.Get(identifier); ok {
		return t.Clone(), nil
	}

	t, err := p.next.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if t != nil && t.State() == tenant.StateActive {
		p.tenants.Put(identifier, t.Clone(), p.ttl)
	}
	return t, nil
}

// Forget drops the cached tenant for identifier.
func (p *ProviderCache) Forget(identifier string) {
	p.tenants.Remove(identifier)
}

// Len returns the number of cached tenants.
func (p *ProviderCache) Len() int {
	return p.tenants.Len()
}
