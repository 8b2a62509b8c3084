package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit/pkg/cache"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("set get delete", func(t *testing.T) {
		t.Parallel()

		s := cache.NewMemoryStore(16)
		require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)

		require.NoError(t, s.Delete(ctx, "k"))
		_, err = s.Get(ctx, "k")
		assert.ErrorIs(t, err, cache.ErrCacheMiss)
	})

	t.Run("empty key", func(t *testing.T) {
		t.Parallel()

		s := cache.NewMemoryStore(16)
		assert.ErrorIs(t, s.Set(ctx, "", []byte("v"), 0), cache.ErrEmptyKey)
		_, err := s.Get(ctx, "")
		assert.ErrorIs(t, err, cache.ErrEmptyKey)
		assert.ErrorIs(t, s.Delete(ctx, ""), cache.ErrEmptyKey)
	})

	t.Run("values are copied", func(t *testing.T) {
		t.Parallel()

		s := cache.NewMemoryStore(16)
		val := []byte("abc")
		require.NoError(t, s.Set(ctx, "k", val, 0))
		val[0] = 'x'

		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), got)
	})

	t.Run("prefixed stores are isolated", func(t *testing.T) {
		t.Parallel()

		shared := cache.NewMemoryStore(16)
		a := shared.WithPrefix("a:")
		b := shared.WithPrefix("b:")
		assert.Equal(t, "a:", a.Prefix())

		require.NoError(t, shared.Set(ctx, "k", []byte("shared"), 0))
		require.NoError(t, a.Set(ctx, "k", []byte("a"), 0))
		require.NoError(t, b.Set(ctx, "k", []byte("b"), 0))

		require.NoError(t, a.Flush(ctx))

		_, err := a.Get(ctx, "k")
		assert.ErrorIs(t, err, cache.ErrCacheMiss)

		got, err := b.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("b"), got)

		got, err = shared.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("shared"), got)
	})
}
