package tenant_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/tenant"
)

func newTenant(state tenant.State) *tenant.Tenant {
	t := &tenant.Tenant{ID: uuid.New(), CreatedAt: time.Now()}
	switch state {
	case tenant.StateProvisioning:
		t.Provisioning = true
	case tenant.StatePending:
		now := time.Now()
		t.PendingSince = &now
	}
	return t
}

func TestTenant_State(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		state   tenant.State
		pending bool
	}{
		{"provisioning", tenant.StateProvisioning, false},
		{"pending", tenant.StatePending, true},
		{"active", tenant.StateActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tn := newTenant(tt.state)
			assert.Equal(t, tt.state, tn.State())
			assert.Equal(t, tt.pending, tn.Pending())
		})
	}

	t.Run("nil tenant is not pending", func(t *testing.T) {
		t.Parallel()

		var tn *tenant.Tenant
		assert.False(t, tn.Pending())
	})
}

func TestTenant_Clone(t *testing.T) {
	t.Parallel()

	orig := newTenant(tenant.StatePending)
	orig.Data = map[string]any{"plan": "pro"}

	c := orig.Clone()
	require.NotSame(t, orig, c)
	assert.Equal(t, orig, c)

	c.Data["plan"] = "free"
	*c.PendingSince = time.Time{}
	assert.Equal(t, "pro", orig.Data["plan"])
	assert.False(t, orig.PendingSince.IsZero())

	var nilTenant *tenant.Tenant
	assert.Nil(t, nilTenant.Clone())
}

func TestScope_Matches(t *testing.T) {
	t.Parallel()

	active := newTenant(tenant.StateActive)
	pending := newTenant(tenant.StatePending)
	provisioning := newTenant(tenant.StateProvisioning)

	tests := []struct {
		scope                          tenant.Scope
		active, pending, provisioning bool
	}{
		{tenant.ExcludePending, true, false, false},
		{tenant.IncludePending, true, true, false},
		{tenant.OnlyPending, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.scope.String(), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.active, tt.scope.Matches(active))
			assert.Equal(t, tt.pending, tt.scope.Matches(pending))
			assert.Equal(t, tt.provisioning, tt.scope.Matches(provisioning))
			assert.False(t, tt.scope.Matches(nil))
		})
	}

	t.Run("zero value excludes pending", func(t *testing.T) {
		t.Parallel()

		var s tenant.Scope
		assert.Equal(t, tenant.ExcludePending, s)
		assert.Equal(t, tenant.IncludePending, tenant.WithPending(true))
		assert.Equal(t, tenant.ExcludePending, tenant.WithPending(false))
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		tn := newTenant(tenant.StateActive)
		ctx := tenant.WithTenant(context.Background(), tn)

		got, ok := tenant.FromContext(ctx)
		require.True(t, ok)
		assert.Same(t, tn, got)

		id, ok := tenant.IDFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, tn.ID, id)
		assert.Same(t, tn, tenant.MustFromContext(ctx))
	})

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()

		_, ok := tenant.FromContext(context.Background())
		assert.False(t, ok)

		id, ok := tenant.IDFromContext(context.Background())
		assert.False(t, ok)
		assert.Equal(t, uuid.UUID{}, id)

		assert.Panics(t, func() { tenant.MustFromContext(context.Background()) })
	})

	t.Run("logger extractor", func(t *testing.T) {
		t.Parallel()

		tn := newTenant(tenant.StateActive)
		extract := tenant.LoggerExtractor()

		attr, ok := extract(tenant.WithTenant(context.Background(), tn))
		require.True(t, ok)
		assert.Equal(t, slog.String("tenant_id", tn.ID.String()), attr)

		_, ok = extract(context.Background())
		assert.False(t, ok)
	})
}
