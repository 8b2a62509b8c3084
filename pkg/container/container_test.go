package container_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/container"
)

type service struct{ name string }

func TestContainer_Bind(t *testing.T) {
	t.Parallel()

	t.Run("factory runs once", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		c := container.New()
		require.NoError(t, c.Bind("svc", func(*container.Container) (any, error) {
			calls.Add(1)
			return &service{name: "shared"}, nil
		}))

		first, err := c.Get("svc")
		require.NoError(t, err)
		second, err := c.Get("svc")
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("nil factory is rejected", func(t *testing.T) {
		t.Parallel()

		err := container.New().Bind("svc", nil)
		assert.ErrorIs(t, err, container.ErrNilFactory)
	})

	t.Run("unbound slot", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		_, err := c.Get("missing")
		assert.ErrorIs(t, err, container.ErrNotBound)
		assert.False(t, c.Has("missing"))
	})

	t.Run("factory error is wrapped", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		c := container.New()
		require.NoError(t, c.Bind("svc", func(*container.Container) (any, error) { return nil, boom }))

		_, err := c.Get("svc")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("factory can resolve other slots", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		c.Instance("name", "inner")
		require.NoError(t, c.Bind("svc", func(c *container.Container) (any, error) {
			name, err := container.Resolve[string](c, "name")
			if err != nil {
				return nil, err
			}
			return &service{name: name}, nil
		}))

		svc, err := container.Resolve[*service](c, "svc")
		require.NoError(t, err)
		assert.Equal(t, "inner", svc.name)
	})

	t.Run("concurrent first resolution yields one instance", func(t *testing.T) {
		t.Parallel()

		c := container.New()
		require.NoError(t, c.Bind("svc", func(*container.Container) (any, error) {
			return &service{}, nil
		}))

		const n = 50
		results := make([]any, n)
		var wg sync.WaitGroup
		wg.Add(n)
		for i := range n {
			go func() {
				defer wg.Done()
				v, err := c.Get("svc")
				assert.NoError(t, err)
				results[i] = v
			}()
		}
		wg.Wait()

		for _, v := range results {
			assert.Same(t, results[0], v)
		}
	})
}

func TestContainer_Rebind(t *testing.T) {
	t.Parallel()

	original := &service{name: "original"}
	replacement := &service{name: "replacement"}

	c := container.New()
	c.Instance("svc", original)
	c.Rebind("svc", container.Value(replacement))

	got, err := container.Resolve[*service](c, "svc")
	require.NoError(t, err)
	assert.Same(t, replacement, got)

	c.Rebind("svc", container.Value(original))
	got, err = container.Resolve[*service](c, "svc")
	require.NoError(t, err)
	assert.Same(t, original, got)

	c.Forget("svc")
	assert.False(t, c.Has("svc"))
}

func TestContainer_Scope(t *testing.T) {
	t.Parallel()

	shared := &service{name: "shared"}
	parent := container.New()
	parent.Instance("svc", shared)

	child := parent.Scope()
	got, err := container.Resolve[*service](child, "svc")
	require.NoError(t, err)
	assert.Same(t, shared, got, "scope shares resolved instances")

	child.Rebind("svc", container.Value(&service{name: "scoped"}))

	fromParent, err := container.Resolve[*service](parent, "svc")
	require.NoError(t, err)
	assert.Same(t, shared, fromParent, "rebinding a scope must not leak into the parent")
}

func TestResolve_TypeMismatch(t *testing.T) {
	t.Parallel()

	c := container.New()
	c.Instance("svc", "a string")

	_, err := container.Resolve[*service](c, "svc")
	assert.ErrorIs(t, err, container.ErrTypeMismatch)
	assert.Panics(t, func() { container.MustResolve[*service](c, "svc") })
}

func TestContext(t *testing.T) {
	t.Parallel()

	c := container.New()
	c.Instance("svc", &service{name: "ctx"})
	ctx := container.WithContainer(context.Background(), c)

	got, ok := container.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, c, got)

	svc, err := container.ResolveFromContext[*service](ctx, "svc")
	require.NoError(t, err)
	assert.Equal(t, "ctx", svc.name)

	_, err = container.ResolveFromContext[*service](context.Background(), "svc")
	assert.ErrorIs(t, err, container.ErrNoContainerInContext)
}
