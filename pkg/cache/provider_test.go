package cache_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/cache"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

type countingProvider struct {
	calls   atomic.Int32
	tenants map[string]*tenant.Tenant
}

func (p *countingProvider) GetByIdentifier(_ context.Context, id string) (*tenant.Tenant, error) {
	p.calls.Add(1)
	t, ok := p.tenants[id]
	if !ok {
		return nil, tenant.ErrTenantNotFound
	}
	return t.Clone(), nil
}

func TestProviderCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Now()
	active := &tenant.Tenant{ID: uuid.New(), Data: map[string]any{"plan": "pro"}}
	waiting := &tenant.Tenant{ID: uuid.New(), PendingSince: &now}

	newCache := func() (*cache.ProviderCache, *countingProvider) {
		next := &countingProvider{tenants: map[string]*tenant.Tenant{
			active.ID.String():  active,
			waiting.ID.String(): waiting,
		}}
		return cache.NewProviderCache(next, 0, time.Minute), next
	}

	t.Run("active tenants are served from cache", func(t *testing.T) {
		t.Parallel()

		pc, next := newCache()
		for range 3 {
			got, err := pc.GetByIdentifier(ctx, active.ID.String())
			require.NoError(t, err)
			assert.Equal(t, active.ID, got.ID)
		}
		assert.Equal(t, int32(1), next.calls.Load())
		assert.Equal(t, 1, pc.Len())
	})

	t.Run("returns copies", func(t *testing.T) {
		t.Parallel()

		pc, _ := newCache()
		got, err := pc.GetByIdentifier(ctx, active.ID.String())
		require.NoError(t, err)
		got.Data["plan"] = "free"

		again, err := pc.GetByIdentifier(ctx, active.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "pro", again.Data["plan"])
	})

	t.Run("misses and pending tenants are not cached", func(t *testing.T) {
		t.Parallel()

		pc, next := newCache()
		missing := uuid.NewString()
		for range 2 {
			_, err := pc.GetByIdentifier(ctx, missing)
			assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
			got, err := pc.GetByIdentifier(ctx, waiting.ID.String())
			require.NoError(t, err)
			assert.Equal(t, tenant.StatePending, got.State())
		}
		assert.Equal(t, int32(4), next.calls.Load())
		assert.Zero(t, pc.Len())
	})

	t.Run("forget forces a lookup", func(t *testing.T) {
		t.Parallel()

		pc, next := newCache()
		_, err := pc.GetByIdentifier(ctx, active.ID.String())
		require.NoError(t, err)
		pc.Forget(active.ID.String())
		_, err = pc.GetByIdentifier(ctx, active.ID.String())
		require.NoError(t, err)
		assert.Equal(t, int32(2), next.calls.Load())
	})
}

func TestNewProviderCache_PanicsOnNilProvider(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { cache.NewProviderCache(nil, 1, time.Minute) })
}
