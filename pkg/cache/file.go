package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DwaineDGIlmer/AiEventing-sub001/internal/metrics"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/serializer"
)

// FileCache is a file-per-entry persistent tier, adapted from the dead
// letter queue's file-persistence pattern: one JSON file per key, missing
// or corrupt files are treated as a miss rather than an error, and the
// expiration is stored alongside the value so it survives a restart
// (resolves the file-tier TTL persistence open question, §9).
type FileCache struct {
	dir    string
	logger *logrus.Logger
}

// fileEnvelope is the on-disk format: value plus its absolute expiration.
type fileEnvelope struct {
	ExpiresAt time.Time `json:"expires_at"`
	Value     []byte    `json:"value"`
}

// NewFileCache creates a file tier rooted at dir, creating it if absent.
func NewFileCache(dir string, logger *logrus.Logger) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, logger: logger}, nil
}

func (f *FileCache) pathFor(key string) string {
	return filepath.Join(f.dir, sanitizeFileName(key))
}

func (f *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(f.pathFor(key))
	if err != nil {
		metrics.CacheMissesTotal.WithLabelValues("file").Inc()
		return nil, false, nil
	}

	env, err := serializer.Deserialize[fileEnvelope](string(raw))
	if err != nil {
		f.logger.WithField("key", key).Warn("cache file corrupt, treating as miss")
		metrics.CacheMissesTotal.WithLabelValues("file").Inc()
		return nil, false, nil
	}
	if time.Now().After(env.ExpiresAt) {
		_ = f.Remove(context.Background(), key)
		metrics.RecordCacheEviction("file", "ttl")
		metrics.CacheMissesTotal.WithLabelValues("file").Inc()
		return nil, false, nil
	}

	metrics.CacheHitsTotal.WithLabelValues("file").Inc()
	return env.Value, true, nil
}

func (f *FileCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	return f.setWithExpiry(key, value, time.Now().Add(ttl))
}

func (f *FileCache) setWithExpiry(key string, value []byte, expiresAt time.Time) error {
	s, err := serializer.Serialize(fileEnvelope{ExpiresAt: expiresAt, Value: value})
	if err != nil {
		return err
	}
	tmp := f.pathFor(key) + ".tmp"
	if err := os.WriteFile(tmp, []byte(s), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.pathFor(key))
}

func (f *FileCache) Remove(_ context.Context, key string) error {
	err := os.Remove(f.pathFor(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FileCache) Dispose() error { return nil }
