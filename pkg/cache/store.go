package cache

import (
	"context"
	"time"
)

// Slot is the registry slot the cache store is bound to.
const Slot = "cache"

// Store is a namespaced byte-oriented cache.
// Get returns ErrCacheMiss for missing or expired keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Flush removes every key in the store's namespace and nothing else.
	Flush(ctx context.Context) error
	// Prefix returns the namespace prepended to every key.
	Prefix() string
}
