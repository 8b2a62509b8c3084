package cache_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tenantkit/pkg/cache"
)

func TestLRUCache_Basic(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](2)
	c.Put("a", 1, 0)
	c.Put("b", 2, 0)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("a", 10, 0)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Len())

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](2)
	c.Put("a", 1, 0)
	c.Put("b", 2, 0)
	c.Get("a") // b becomes least recently used
	c.Put("c", 3, 0)

	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUCache_TTL(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](4)
	c.Put("short", 1, 20*time.Millisecond)
	c.Put("forever", 2, 0)

	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok)
	_, ok = c.Get("forever")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestLRUCache_RemoveFunc(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](10)
	c.Put("t1:a", 1, 0)
	c.Put("t1:b", 2, 0)
	c.Put("t2:a", 3, 0)

	removed := c.RemoveFunc(func(k string) bool { return strings.HasPrefix(k, "t1:") })
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Len())
}

func TestLRUCache_EdgeCases(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { cache.NewLRUCache[string, int](0) })
	assert.Panics(t, func() { cache.NewLRUCache[string, int](-1) })
}

func TestLRUCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewLRUCache[string, int](100)
	var wg sync.WaitGroup
	for g := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				key := fmt.Sprintf("g%d:%d", g, i%20)
				c.Put(key, i, time.Minute)
				c.Get(key)
				if i%7 == 0 {
					c.Remove(key)
				}
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 100)
}
