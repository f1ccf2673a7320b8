// Package cache implements the two-tier cache used by the fault analyzer
// to deduplicate repeated exceptions (§4.5).
package cache

import (
	"context"
	"time"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/serializer"
)

// Cache is the tier-agnostic storage contract both MemoryCache and
// FileCache satisfy, and what TwoTier composes.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Remove(ctx context.Context, key string) error
	Dispose() error
}

// TryGet deserializes a cached value of type T, returning (zero, false,
// nil) on a plain miss and (zero, false, err) only when the tier itself
// failed (corruption on read is treated as a miss, not an error, by the
// tier implementations themselves).
func TryGet[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var zero T
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := serializer.Deserialize[T](string(raw))
	if err != nil {
		return zero, false, nil
	}
	return v, true, nil
}

// CreateEntry serializes value and stores it with the given TTL.
func CreateEntry[T any](ctx context.Context, c Cache, key string, value T, ttl time.Duration) error {
	s, err := serializer.Serialize(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, []byte(s), ttl)
}

// DeriveKey builds a cache key from a namespacing prefix, a primary
// identifier, and an optional content hash (e.g. an exception fingerprint)
// for keys that need to vary with payload content rather than identity
// alone.
func DeriveKey(prefix, primary, contentHash string) string {
	if contentHash == "" {
		return prefix + ":" + primary
	}
	return prefix + ":" + primary + ":" + contentHash
}
