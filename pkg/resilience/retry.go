package resilience

import (
	"context"
	"io"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DwaineDGIlmer/AiEventing-sub001/internal/metrics"
)

// RetryConfig configures exponential backoff retry, adapted from the
// teacher's retry manager's backoff calculation.
type RetryConfig struct {
	Name string
	// MaxAttempts is the total number of tries, including the first.
	// Default 3.
	MaxAttempts int
	// BaseDelay is the delay before the first retry. Default 200ms.
	BaseDelay time.Duration
	// MaxDelay caps the computed backoff. Default 5s.
	MaxDelay time.Duration
	// JitterFraction randomizes each delay by +/- this fraction. Default 0.2.
	JitterFraction float64
}

func (c *RetryConfig) applyDefaults() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 200 * time.Millisecond
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = 5 * time.Second
	}
	if c.JitterFraction <= 0 {
		c.JitterFraction = 0.2
	}
}

// Retry retries a call on transient failure: network errors and 5xx/408/429
// responses. Non-transient errors (anything else) are not retried.
type Retry struct {
	cfg    RetryConfig
	logger *logrus.Logger
}

func NewRetry(cfg RetryConfig, logger *logrus.Logger) *Retry {
	cfg.applyDefaults()
	return &Retry{cfg: cfg, logger: logger}
}

// IsRetryable reports whether an HTTP outcome should be retried.
func IsRetryable(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	if resp == nil {
		return false
	}
	switch resp.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return resp.StatusCode >= 500
}

func (r *Retry) backoff(attempt int) time.Duration {
	exp := float64(r.cfg.BaseDelay) * math.Pow(2, float64(attempt))
	if exp > float64(r.cfg.MaxDelay) {
		exp = float64(r.cfg.MaxDelay)
	}
	jitter := exp * r.cfg.JitterFraction * (rand.Float64()*2 - 1)
	d := time.Duration(exp + jitter)
	if d < 0 {
		d = 0
	}
	return d
}

// Do runs fn, retrying on a transient outcome per shouldRetry, up to
// MaxAttempts total tries. Any response from an attempt that gets retried is
// drained and closed before the next attempt runs, so the underlying
// connection is returned to the pool instead of leaking; only the response
// finally returned to the caller is left open for them to close.
func (r *Retry) Do(ctx context.Context, shouldRetry func(*http.Response, error) bool, fn func(ctx context.Context) (*http.Response, error)) (*http.Response, error) {
	var lastResp *http.Response
	var lastErr error

	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			metrics.RetryAttemptsTotal.WithLabelValues(r.cfg.Name).Inc()
			select {
			case <-time.After(r.backoff(attempt - 1)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := fn(ctx)
		if !shouldRetry(resp, err) {
			return resp, err
		}

		lastResp, lastErr = resp, err
		if attempt < r.cfg.MaxAttempts-1 {
			r.logger.WithFields(logrus.Fields{"retry": r.cfg.Name, "attempt": attempt + 1}).Warn("retrying transient failure")
			drainAndClose(resp)
			lastResp = nil
		}
	}
	return lastResp, lastErr
}

// drainAndClose discards a retried response's body so its connection can be
// reused, matching net/http's documented contract for callers that don't
// read a response body to completion.
func drainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
