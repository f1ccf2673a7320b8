package resilience

import (
	"context"
	"sync/atomic"

	"github.com/DwaineDGIlmer/AiEventing-sub001/internal/metrics"
)

// BulkheadConfig configures a Bulkhead.
type BulkheadConfig struct {
	Name string
	// MaxParallel bounds concurrent in-flight calls. Default 10.
	MaxParallel int
	// MaxQueue bounds callers waiting for an in-flight slot before the
	// bulkhead sheds load outright. A negative value selects the default
	// 20; zero lets no caller wait.
	MaxQueue int
}

func (c *BulkheadConfig) applyDefaults() {
	if c.MaxParallel <= 0 {
		c.MaxParallel = 10
	}
	if c.MaxQueue < 0 {
		c.MaxQueue = 20
	}
}

// Bulkhead caps concurrent work with a semaphore, adapted from the
// teacher's retry manager's retrySemaphore pattern, generalized into its
// own reusable policy. Callers beyond MaxParallel+MaxQueue are shed
// immediately (ErrBulkheadRejected) instead of blocking indefinitely.
type Bulkhead struct {
	cfg    BulkheadConfig
	sem    chan struct{}
	queued int32
}

func NewBulkhead(cfg BulkheadConfig) *Bulkhead {
	cfg.applyDefaults()
	return &Bulkhead{
		cfg: cfg,
		sem: make(chan struct{}, cfg.MaxParallel),
	}
}

// rejectedError is returned by Run when the bulkhead is saturated. Transport
// recognizes it via isBulkheadRejected and synthesizes the 503 response
// callers see at the RoundTripper boundary (§4.6); Run itself stays in terms
// of a plain error so Bulkhead has no HTTP-specific dependency.
type rejectedError struct{ name string }

func (e *rejectedError) Error() string { return "bulkhead " + e.name + ": rejected, queue at capacity" }

func isBulkheadRejected(err error) bool {
	_, ok := err.(*rejectedError)
	return ok
}

// Run executes fn if capacity allows, shedding immediately when the queue
// is already full rather than queueing indefinitely.
func (b *Bulkhead) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if atomic.AddInt32(&b.queued, 1) > int32(b.cfg.MaxParallel+b.cfg.MaxQueue) {
		atomic.AddInt32(&b.queued, -1)
		metrics.BulkheadRejectedTotal.WithLabelValues(b.cfg.Name).Inc()
		return &rejectedError{name: b.cfg.Name}
	}
	defer atomic.AddInt32(&b.queued, -1)

	select {
	case b.sem <- struct{}{}:
		defer func() { <-b.sem }()
		return fn(ctx)
	case <-ctx.Done():
		return ctx.Err()
	}
}
