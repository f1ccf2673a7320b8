package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DwaineDGIlmer/AiEventing-sub001/internal/metrics"
)

// MemoryCache is an in-memory LRU+TTL cache, adapted from the teacher's
// deduplication manager: a map for O(1) lookup plus a doubly-linked list
// for O(1) recency tracking, with a hard cap on entry count so a burst of
// distinct keys can't grow memory unbounded.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
	maxEntries int
	logger     *logrus.Logger
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates a memory tier bounded to maxEntries (LRU-evicted
// once exceeded); maxEntries <= 0 defaults to 10,000, matching the
// deduplication manager's default capacity.
func NewMemoryCache(maxEntries int, logger *logrus.Logger) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = 10_000
	}
	return &MemoryCache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: maxEntries,
		logger:     logger,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		metrics.CacheMissesTotal.WithLabelValues("memory").Inc()
		return nil, false, nil
	}
	entry := el.Value.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		m.removeElement(el)
		metrics.RecordCacheEviction("memory", "ttl")
		metrics.CacheMissesTotal.WithLabelValues("memory").Inc()
		return nil, false, nil
	}

	m.order.MoveToFront(el)
	metrics.CacheHitsTotal.WithLabelValues("memory").Inc()
	return entry.value, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt := time.Now().Add(ttl)
	if el, ok := m.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		m.order.MoveToFront(el)
		return nil
	}

	el := m.order.PushFront(&memoryEntry{key: key, value: value, expiresAt: expiresAt})
	m.entries[key] = el

	for m.order.Len() > m.maxEntries {
		oldest := m.order.Back()
		if oldest == nil {
			break
		}
		m.removeElement(oldest)
		metrics.RecordCacheEviction("memory", "lru")
	}
	return nil
}

func (m *MemoryCache) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.entries[key]; ok {
		m.removeElement(el)
	}
	return nil
}

func (m *MemoryCache) Dispose() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*list.Element)
	m.order.Init()
	return nil
}

// removeElement must be called with mu held.
func (m *MemoryCache) removeElement(el *list.Element) {
	entry := el.Value.(*memoryEntry)
	delete(m.entries, entry.key)
	m.order.Remove(el)
}

// Entry is a live cache record with its absolute expiration, used by
// TwoTier to persist the memory tier into the file tier.
type Entry struct {
	Value     []byte
	ExpiresAt time.Time
}

// Snapshot returns a shallow copy of all live, non-expired entries, used by
// TwoTier to persist the memory tier into the file tier on dispose.
func (m *MemoryCache) Snapshot() map[string]Entry {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	out := make(map[string]Entry, len(m.entries))
	for k, el := range m.entries {
		entry := el.Value.(*memoryEntry)
		if now.After(entry.expiresAt) {
			continue
		}
		out[k] = Entry{Value: entry.value, ExpiresAt: entry.expiresAt}
	}
	return out
}
