// Package faultanalyzer implements the fault-analysis side channel (§4.8):
// on an exception-bearing record it deduplicates by the record's exception
// fingerprint, calls an external chat-completion service, caches the
// response, and emits an additional diagnostic record — entirely decoupled
// from the call site that triggered it.
package faultanalyzer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DwaineDGIlmer/AiEventing-sub001/internal/metrics"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/cache"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/chatclient"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/logevent"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/serializer"
)

// systemPrompt matches the wording §4.8 mandates for step 3.
const systemPrompt = "You are a debugging assistant for stack traces."

// Emitter is the subset of Logger the analyzer needs to publish its own
// diagnostic records. Kept as an interface here, implemented by
// pkg/logging.Logger, so this package never needs to import pkg/logging
// (which imports this package to schedule analysis) — the dependency runs
// one way.
type Emitter interface {
	Emit(level logevent.Level, body string)
}

// Config tunes a FaultAnalyzer.
type Config struct {
	// CacheTTL bounds how long a cached analysis is served before the same
	// fingerprint queries upstream again. Default 20m (§3 FaultCacheEntry).
	CacheTTL time.Duration
	// WorkerPoolSize bounds concurrent in-flight analyses. Size it to the
	// resilience bulkhead's MaxParallel (§9) so the analyzer never queues
	// more concurrent work than the HTTP layer beneath it can serve; excess
	// submissions are dropped, not queued. Default 10.
	WorkerPoolSize int
	// CachePrefix namespaces dedup keys via pkg/cache.DeriveKey.
	CachePrefix string
}

func (c *Config) applyDefaults() {
	if c.CacheTTL <= 0 {
		c.CacheTTL = 20 * time.Minute
	}
	if c.WorkerPoolSize <= 0 {
		c.WorkerPoolSize = 10
	}
	if c.CachePrefix == "" {
		c.CachePrefix = "faultanalysis"
	}
}

// FaultAnalyzer is the spec's analyze(logEvent)/analyze(messages) pipeline
// (§4.8), grounded on the teacher's task_manager ctx/cancel + semaphore
// task-lifecycle shape, generalized from a named long-running task
// registry down to a bounded fire-and-forget worker pool over one-shot
// analyses, reusing pkg/cache for dedup storage and pkg/chatclient for the
// upstream call.
type FaultAnalyzer struct {
	cfg    Config
	cache  cache.Cache
	client *chatclient.Client
	logger *logrus.Logger

	sem    chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a FaultAnalyzer around an already-composed cache (typically a
// *cache.TwoTier) and chat client (typically wrapping pkg/resilience's
// Transport).
func New(c cache.Cache, client *chatclient.Client, cfg Config, logger *logrus.Logger) *FaultAnalyzer {
	cfg.applyDefaults()
	if logger == nil {
		logger = logrus.New()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &FaultAnalyzer{
		cfg:    cfg,
		cache:  c,
		client: client,
		logger: logger,
		sem:    make(chan struct{}, cfg.WorkerPoolSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Submit schedules analysis of event on the bounded worker pool and returns
// immediately. The caller (Logger) never waits on this call and never
// fails because analysis failed (§4.8 contract); if the pool is saturated
// the submission itself is dropped rather than queued.
func (a *FaultAnalyzer) Submit(event *logevent.LogEvent, emitter Emitter) {
	if event == nil || event.Exception == nil {
		return
	}

	select {
	case a.sem <- struct{}{}:
	default:
		metrics.AnalyzerQueueDroppedTotal.Inc()
		a.logger.WithField("fingerprint", event.ID).Warn("fault analysis dropped: worker pool saturated")
		return
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer func() { <-a.sem }()
		a.Analyze(event, emitter)
	}()
}

// Analyze runs the full pipeline synchronously: dedup check, upstream call
// on miss, cache insert, and diagnostic emit. It is exported directly
// (rather than only reachable via Submit) so it can be driven
// deterministically in tests without a goroutine race. It returns whether
// a diagnosis was produced (from cache or upstream). A nil event or one
// without an exception returns false without emitting anything.
func (a *FaultAnalyzer) Analyze(event *logevent.LogEvent, emitter Emitter) bool {
	if event == nil || event.Exception == nil {
		return false
	}

	start := time.Now()
	defer func() { metrics.AnalyzerLatencySeconds.Observe(time.Since(start).Seconds()) }()

	key := cache.DeriveKey(a.cfg.CachePrefix, event.ID, "")

	if cached, ok, err := cache.TryGet[chatclient.Response](a.ctx, a.cache, key); err == nil && ok {
		metrics.AnalyzerDedupedTotal.Inc()
		emitter.Emit(logevent.LevelDebug, "cached analysis found: "+cached.FirstContent())
		return true
	}

	resp, err := a.analyzeMessages(a.ctx, []chatclient.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: event.Exception.StackTrace},
	})
	if err != nil {
		metrics.AnalyzerFailuresTotal.Inc()
		emitter.Emit(logevent.LevelError, "Exception during fault analysis: "+err.Error())
		return false
	}

	if err := cache.CreateEntry(a.ctx, a.cache, key, *resp, a.cfg.CacheTTL); err != nil {
		a.logger.WithError(err).WithField("fingerprint", event.ID).Warn("failed to cache fault analysis")
	}

	choices, err := serializer.Serialize(resp.Choices)
	if err != nil {
		choices = resp.FirstContent()
	}
	emitter.Emit(logevent.LevelDebug, choices)
	return true
}

// analyzeMessages is the spec's analyze(messages) -> ChatResponse form
// (§4.8), a thin wrapper over the chat client kept as its own method so
// the message-construction step (Analyze) and the transport step stay
// independently testable.
func (a *FaultAnalyzer) analyzeMessages(ctx context.Context, messages []chatclient.Message) (*chatclient.Response, error) {
	return a.client.Send(ctx, messages)
}

// Close cancels outstanding analyses and waits for in-flight work to
// return. Submissions already dropped for pool saturation are not waited
// on — there is nothing outstanding for them.
func (a *FaultAnalyzer) Close() {
	a.cancel()
	a.wg.Wait()
}
