package cache

import (
	"context"
	"strings"
	"time"
)

// MemoryStore is an in-process Store backed by an LRU cache. Stores derived with
// WithPrefix share the underlying LRU and differ only by key prefix.
type MemoryStore struct {
	lru    *LRUCache[string, []byte]
	prefix string
}

// NewMemoryStore creates a memory store holding at most capacity entries across
// all prefixes.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{lru: NewLRUCache[string, []byte](capacity)}
}

// WithPrefix returns a store over the same LRU whose keys are namespaced by prefix.
func (s *MemoryStore) WithPrefix(prefix string) *MemoryStore {
	return &MemoryStore{lru: s.lru, prefix: s.prefix + prefix}
}

func (s *MemoryStore) Prefix() string {
	return s.prefix
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	v, ok := s.lru.Get(s.prefix + key)
	if !ok {
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.lru.Put(s.prefix+key, append([]byte(nil), value...), ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.lru.Remove(s.prefix + key)
	return nil
}

// Flush removes the keys under the store's prefix. An unprefixed store clears everything.
func (s *MemoryStore) Flush(context.Context) error {
	s.lru.RemoveFunc(func(key string) bool { return strings.HasPrefix(key, s.prefix) })
	return nil
}
