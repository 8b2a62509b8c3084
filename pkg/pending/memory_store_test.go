package pending_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/pending"
	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := pending.NewMemoryStore()

	created, err := s.Create(ctx, map[string]any{"plan": "pro"})
	require.NoError(t, err)
	assert.Equal(t, tenant.StateProvisioning, created.State())
	assert.Equal(t, "pro", created.Data["plan"])

	for _, scope := range []tenant.Scope{tenant.ExcludePending, tenant.IncludePending, tenant.OnlyPending} {
		_, err := s.Get(ctx, created.ID, scope)
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound, "provisioning visible under %s", scope)
	}

	at := time.Now()
	marked, err := s.MarkPending(ctx, created.ID, at)
	require.NoError(t, err)
	assert.Equal(t, tenant.StatePending, marked.State())
	assert.True(t, marked.PendingSince.Equal(at))

	_, err = s.MarkPending(ctx, created.ID, at)
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)

	_, err = s.Get(ctx, created.ID, tenant.ExcludePending)
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	_, err = s.Get(ctx, created.ID, tenant.OnlyPending)
	assert.NoError(t, err)

	claimed, ok, err := s.Claim(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tenant.StateActive, claimed.State())

	_, ok, err = s.Claim(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.Get(ctx, created.ID, tenant.ExcludePending)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := pending.NewMemoryStore()

	input := map[string]any{"plan": "pro"}
	created, err := s.Create(ctx, input)
	require.NoError(t, err)
	input["plan"] = "free"
	created.Data["plan"] = "free"

	marked, err := s.MarkPending(ctx, created.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "pro", marked.Data["plan"])
}

func TestMemoryStore_Queries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := pending.NewMemoryStore()
	base := time.Now()

	newPending := func(at time.Time) uuid.UUID {
		t.Helper()
		created, err := s.Create(ctx, nil)
		require.NoError(t, err)
		_, err = s.MarkPending(ctx, created.ID, at)
		require.NoError(t, err)
		return created.ID
	}

	newer := newPending(base.Add(time.Minute))
	older := newPending(base)
	active := newPending(base.Add(-time.Hour))
	_, ok, err := s.Claim(ctx, active)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = s.Create(ctx, nil)
	require.NoError(t, err)

	first, err := s.FirstPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, older, first.ID)

	counts := map[tenant.Scope]int{tenant.ExcludePending: 1, tenant.IncludePending: 3, tenant.OnlyPending: 2}
	for scope, want := range counts {
		n, err := s.Count(ctx, scope)
		require.NoError(t, err)
		assert.Equal(t, want, n, scope.String())
	}

	pool, err := s.List(ctx, tenant.OnlyPending)
	require.NoError(t, err)
	require.Len(t, pool, 2)
	assert.Equal(t, older, pool[0].ID)
	assert.Equal(t, newer, pool[1].ID)

	stale, err := s.PendingBefore(ctx, base.Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{older}, stale)

	ok, err = s.Delete(ctx, older, tenant.StateActive)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.Delete(ctx, older, tenant.StatePending)
	require.NoError(t, err)
	assert.True(t, ok)

	first, err = s.FirstPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer, first.ID)
}

func TestMemoryStore_FirstPendingEmpty(t *testing.T) {
	t.Parallel()

	_, err := pending.NewMemoryStore().FirstPending(context.Background())
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
}

func TestMemoryStore_ListOrdersPendingFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := pending.NewMemoryStore()
	base := time.Now()

	var active []uuid.UUID
	for i := range 3 {
		created, err := s.Create(ctx, nil)
		require.NoError(t, err)
		_, err = s.MarkPending(ctx, created.ID, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		_, ok, err := s.Claim(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		active = append(active, created.ID)
	}
	var queued []uuid.UUID
	for i := range 3 {
		created, err := s.Create(ctx, nil)
		require.NoError(t, err)
		_, err = s.MarkPending(ctx, created.ID, base.Add(time.Minute+time.Duration(i)*time.Second))
		require.NoError(t, err)
		queued = append(queued, created.ID)
	}

	all, err := s.List(ctx, tenant.IncludePending)
	require.NoError(t, err)
	require.Len(t, all, 6)
	for i, id := range queued {
		assert.Equal(t, id, all[i].ID)
		assert.Equal(t, tenant.StatePending, all[i].State())
	}
	for _, got := range all[3:] {
		assert.Equal(t, tenant.StateActive, got.State())
		assert.Contains(t, active, got.ID)
	}
}
