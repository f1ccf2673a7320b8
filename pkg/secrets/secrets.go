// Package secrets resolves the API keys this module's outbound components
// need (OPENAI_API_KEY, RCASERVICE_API_KEY, §6), simplified from the
// teacher's multi-backend secret manager down to the single backend this
// spec's env-var contract requires.
package secrets

import (
	"os"
	"sync"
	"time"
)

// Resolver looks up a secret by name, reporting whether it was found.
type Resolver interface {
	Resolve(key string) (string, bool)
}

// EnvResolver reads secrets directly from the process environment.
type EnvResolver struct{}

func (EnvResolver) Resolve(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}

type cachedValue struct {
	value     string
	found     bool
	expiresAt time.Time
}

// CachingResolver memoizes lookups for a TTL, adapted from the teacher's
// multi-backend secret manager's caching layer, so a hot path (every
// outbound chat call) doesn't re-read the environment on every request.
type CachingResolver struct {
	next Resolver
	ttl  time.Duration

	mu    sync.Mutex
	cache map[string]cachedValue
}

func NewCachingResolver(next Resolver, ttl time.Duration) *CachingResolver {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachingResolver{next: next, ttl: ttl, cache: make(map[string]cachedValue)}
}

func (c *CachingResolver) Resolve(key string) (string, bool) {
	c.mu.Lock()
	if entry, ok := c.cache[key]; ok && time.Now().Before(entry.expiresAt) {
		c.mu.Unlock()
		return entry.value, entry.found
	}
	c.mu.Unlock()

	value, found := c.next.Resolve(key)

	c.mu.Lock()
	c.cache[key] = cachedValue{value: value, found: found, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	return value, found
}
