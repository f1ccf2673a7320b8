package resilience

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/apperr"
)

// Config selects and configures each stage of the pipeline. A nil pointer
// for a given stage disables it entirely, honoring "each independently
// disableable" (§4.6).
type Config struct {
	Name        string
	Bulkhead    *BulkheadConfig
	Breaker     *CircuitBreakerConfig
	Retry       *RetryConfig
	Timeout     *TimeoutConfig
	Logger      *logrus.Logger
	ShouldRetry func(*http.Response, error) bool
}

// Transport is an http.RoundTripper composing Bulkhead -> CircuitBreaker ->
// Retry -> Timeout -> next, in that fixed outer-to-inner order (§4.6): the
// bulkhead sheds load before anything else runs, the breaker short-circuits
// before a doomed retry loop starts, retry governs the timeout-bounded
// attempts, and the innermost stage is the real network call.
type Transport struct {
	name        string
	next        http.RoundTripper
	bulkhead    *Bulkhead
	breaker     *CircuitBreaker
	retry       *Retry
	timeout     *Timeout
	shouldRetry func(*http.Response, error) bool
	logger      *logrus.Logger
}

// NewTransport builds a resilient transport around next (http.DefaultTransport
// if nil) per cfg.
func NewTransport(next http.RoundTripper, cfg Config) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.ShouldRetry == nil {
		cfg.ShouldRetry = IsRetryable
	}

	t := &Transport{
		name:        cfg.Name,
		next:        next,
		shouldRetry: cfg.ShouldRetry,
		logger:      cfg.Logger,
	}
	if cfg.Bulkhead != nil {
		t.bulkhead = NewBulkhead(*cfg.Bulkhead)
	}
	if cfg.Breaker != nil {
		t.breaker = NewCircuitBreaker(*cfg.Breaker, cfg.Logger)
	}
	if cfg.Retry != nil {
		t.retry = NewRetry(*cfg.Retry, cfg.Logger)
	}
	if cfg.Timeout != nil {
		t.timeout = NewTimeout(*cfg.Timeout)
	}
	return t
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.bulkhead == nil {
		return t.viaBreaker(req)
	}

	var resp *http.Response
	var callErr error
	shedErr := t.bulkhead.Run(req.Context(), func(ctx context.Context) error {
		resp, callErr = t.viaBreaker(req.WithContext(ctx))
		return callErr
	})
	if shedErr != nil && resp == nil && callErr == nil {
		if isBulkheadRejected(shedErr) {
			return serviceUnavailableResponse(req, shedErr), nil
		}
		return nil, shedErr
	}
	return resp, callErr
}

// serviceUnavailableResponse synthesizes the 503 a caller sees when the
// bulkhead sheds a request, so a RoundTripper consumer built against plain
// HTTP status handling (no error-type switching) still gets §4.6's
// documented oversubscription behavior.
func serviceUnavailableResponse(req *http.Request, cause error) *http.Response {
	body := cause.Error()
	return &http.Response{
		Status:        http.StatusText(http.StatusServiceUnavailable),
		StatusCode:    http.StatusServiceUnavailable,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        make(http.Header),
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

func (t *Transport) viaBreaker(req *http.Request) (*http.Response, error) {
	if t.breaker == nil {
		return t.viaRetry(req)
	}
	if !t.breaker.Allow() {
		return nil, apperr.CircuitOpen("resilience", t.name)
	}
	resp, err := t.viaRetry(req)
	t.breaker.Report(err == nil && (resp == nil || resp.StatusCode < 500))
	return resp, err
}

func (t *Transport) viaRetry(req *http.Request) (*http.Response, error) {
	attempt := func(ctx context.Context) (*http.Response, error) {
		return t.viaTimeout(req.WithContext(ctx))
	}
	if t.retry == nil {
		return attempt(req.Context())
	}
	return t.retry.Do(req.Context(), t.shouldRetry, attempt)
}

func (t *Transport) viaTimeout(req *http.Request) (*http.Response, error) {
	if t.timeout == nil {
		return t.next.RoundTrip(req)
	}
	return t.timeout.Do(req.Context(), func(ctx context.Context) (*http.Response, error) {
		return t.next.RoundTrip(req.WithContext(ctx))
	})
}
