package cache

import (
	"context"
	"time"
)

// TwoTier composes a fast in-memory tier with an optional durable file
// tier: reads check memory first, promoting a file-tier hit back into
// memory; writes go to both tiers immediately (write-through), so every
// successful Set is already on disk when a process restarts — simpler
// than batching writes and deferring them to Dispose, while still
// satisfying "persists across a restart" (§9).
type TwoTier struct {
	Memory *MemoryCache
	File   *FileCache // nil disables the file tier entirely
}

// NewTwoTier builds a composed cache. Pass a nil file tier to run
// memory-only.
func NewTwoTier(memory *MemoryCache, file *FileCache) *TwoTier {
	return &TwoTier{Memory: memory, File: file}
}

// Warm hydrates the memory tier from the file tier at startup for the
// given keys, letting a restarted process recover recent dedup state
// without waiting to relearn it. The file tier has no listing operation of
// its own (it's a flat bag of sanitized filenames), so callers supply the
// keys they expect to matter, e.g. previously-seen fingerprints persisted
// elsewhere.
func (t *TwoTier) Warm(ctx context.Context, keys []string) {
	if t.File == nil {
		return
	}
	for _, key := range keys {
		raw, ok, err := t.File.Get(ctx, key)
		if err != nil || !ok {
			continue
		}
		// TTL remaining isn't known from Get's return value alone; a short
		// grace window is used so a warmed entry isn't immediately stale.
		_ = t.Memory.Set(ctx, key, raw, 5*time.Minute)
	}
}

func (t *TwoTier) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if raw, ok, err := t.Memory.Get(ctx, key); ok || err != nil {
		return raw, ok, err
	}
	if t.File == nil {
		return nil, false, nil
	}
	raw, ok, err := t.File.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	// Promote with the same grace window Warm uses.
	_ = t.Memory.Set(ctx, key, raw, 5*time.Minute)
	return raw, true, nil
}

func (t *TwoTier) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := t.Memory.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	if t.File == nil {
		return nil
	}
	return t.File.setWithExpiry(key, value, time.Now().Add(ttl))
}

func (t *TwoTier) Remove(ctx context.Context, key string) error {
	if err := t.Memory.Remove(ctx, key); err != nil {
		return err
	}
	if t.File == nil {
		return nil
	}
	return t.File.Remove(ctx, key)
}

// Dispose flushes any live memory-tier entries into the file tier (in case
// a caller is running write-through disabled in some future variant) and
// releases the memory tier.
func (t *TwoTier) Dispose() error {
	if t.File != nil {
		for key, entry := range t.Memory.Snapshot() {
			_ = t.File.setWithExpiry(key, entry.Value, entry.ExpiresAt)
		}
	}
	return t.Memory.Dispose()
}
