package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richxcame/fx-gateway/pkg/logger"
	"go.uber.org/zap"
)

// ErrCacheMiss signals that a key is not present in the store.
var ErrCacheMiss = errors.New("cache miss")

// Store is a remote key-value cache. Implementations are expected to be safe
// for concurrent use; this package adds no locking of its own.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisStore backs the cache with Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Get returns the cached bytes for key, or ErrCacheMiss.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return val, nil
}

// Set stores value under key with the given TTL.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes key from the store.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// NoopStore is substituted at startup when Redis is disabled or unreachable.
// Every read misses and every write is dropped, so the service runs without
// caching instead of failing.
type NoopStore struct{}

// NewNoopStore creates a store that caches nothing.
func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

// Get always reports a miss.
func (s *NoopStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrCacheMiss
}

// Set drops the value.
func (s *NoopStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op.
func (s *NoopStore) Delete(ctx context.Context, key string) error {
	return nil
}

// GetOrCompute implements the cache-aside read path. On a hit the cached
// value is returned and compute is never invoked. On a miss, compute runs and
// its result is stored best-effort with the given TTL. Store failures degrade
// to always-miss behavior: they are logged and counted, never surfaced.
//
// Concurrent misses for the same key each invoke compute independently; the
// short TTLs and the breaker upstream keep that affordable.
func GetOrCompute[T any](ctx context.Context, store Store, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if store != nil {
		raw, err := store.Get(ctx, key)
		switch {
		case err == nil:
			var cached T
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				recordCacheHit()
				return cached, nil
			}
			logger.WithContext(ctx).Warn("cache entry unreadable, recomputing",
				zap.String("key", key),
			)
			recordCacheError()
		case errors.Is(err, ErrCacheMiss):
			recordCacheMiss()
		default:
			recordCacheError()
			logger.WithContext(ctx).Warn("cache unavailable, treating as miss",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}

	value, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	if store != nil {
		if raw, jsonErr := json.Marshal(value); jsonErr == nil {
			if setErr := store.Set(ctx, key, raw, ttl); setErr != nil {
				recordCacheError()
				logger.WithContext(ctx).Warn("cache write failed",
					zap.String("key", key),
					zap.Error(setErr),
				)
			}
		}
	}

	return value, nil
}
