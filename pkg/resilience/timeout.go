// Package resilience composes Bulkhead, CircuitBreaker, Retry and Timeout
// into a single http.RoundTripper for ResilientHTTP (§4.6), each stage
// independently disableable.
package resilience

import (
	"context"
	"net/http"
	"time"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/apperr"
)

// TimeoutConfig bounds how long a single call attempt may run. Default 60s.
type TimeoutConfig struct {
	Name    string
	Timeout time.Duration
}

func (c *TimeoutConfig) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
}

// Timeout wraps an operation with a context deadline, surfacing a
// TimeoutError when the deadline is exceeded rather than the raw
// context.DeadlineExceeded.
type Timeout struct{ cfg TimeoutConfig }

func NewTimeout(cfg TimeoutConfig) *Timeout {
	cfg.applyDefaults()
	return &Timeout{cfg: cfg}
}

func (t *Timeout) Do(ctx context.Context, fn func(ctx context.Context) (*http.Response, error)) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	resp, err := fn(ctx)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return nil, apperr.Timeout("resilience", t.cfg.Name, err)
	}
	return resp, err
}
