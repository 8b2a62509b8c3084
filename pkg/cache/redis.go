package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultScanBatchSize = 1000

// RedisStore is a Store over a go-redis client. Every key is prefixed.
type RedisStore struct {
	db            redis.UniversalClient
	prefix        string
	scanBatchSize int64
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix sets the namespace for every key.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithScanBatchSize sets the SCAN COUNT used by Flush.
func WithScanBatchSize(n int64) RedisOption {
	return func(s *RedisStore) {
		if n > 0 {
			s.scanBatchSize = n
		}
	}
}

// NewRedisStore wraps client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{db: client, scanBatchSize: defaultScanBatchSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithPrefix returns a store on the same client with prefix appended to the namespace.
func (s *RedisStore) WithPrefix(prefix string) *RedisStore {
	return &RedisStore{db: s.db, prefix: s.prefix + prefix, scanBatchSize: s.scanBatchSize}
}

func (s *RedisStore) Prefix() string {
	return s.prefix
}

// Client returns the underlying client.
func (s *RedisStore) Client() redis.UniversalClient {
	return s.db
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	val, err := s.db.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return val, err
}

// Set stores value. A ttl of zero means no expiration.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.db.Set(ctx, s.prefix+key, value, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return s.db.Del(ctx, s.prefix+key).Err()
}

// Flush deletes the keys under the prefix using SCAN so Redis is never blocked.
// An unprefixed store refuses to flush, since that would wipe every tenant.
func (s *RedisStore) Flush(ctx context.Context) error {
	if s.prefix == "" {
		return ErrUnscopedFlush
	}
	var cursor uint64
	for {
		keys, next, err := s.db.Scan(ctx, cursor, s.prefix+"*", s.scanBatchSize).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.db.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
