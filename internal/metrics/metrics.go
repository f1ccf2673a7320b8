// Package metrics declares the Prometheus series this module exposes about
// its own internals: publisher queue health, resilience pipeline state,
// cache effectiveness and fault-analyzer throughput.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PublisherQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aieventing_publisher_queue_depth",
			Help: "Current number of queued records per publisher",
		},
		[]string{"publisher"},
	)

	PublisherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aieventing_publisher_events_total",
			Help: "Total records successfully delivered by a publisher",
		},
		[]string{"publisher"},
	)

	PublisherDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aieventing_publisher_dropped_total",
			Help: "Total records dropped by a publisher due to a full queue",
		},
		[]string{"publisher"},
	)

	PublisherErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aieventing_publisher_errors_total",
			Help: "Total sink write errors encountered by a publisher",
		},
		[]string{"publisher"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aieventing_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	BulkheadRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aieventing_bulkhead_rejected_total",
			Help: "Total calls shed by a bulkhead because of queue saturation",
		},
		[]string{"name"},
	)

	RetryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aieventing_retry_attempts_total",
			Help: "Total retry attempts made by the resilience pipeline",
		},
		[]string{"name"},
	)

	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aieventing_cache_hits_total",
			Help: "Cache hits by tier",
		},
		[]string{"tier"},
	)

	CacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aieventing_cache_misses_total",
			Help: "Cache misses by tier",
		},
		[]string{"tier"},
	)

	CacheEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aieventing_cache_evictions_total",
			Help: "Total cache evictions (LRU or TTL expiration)",
		},
		[]string{"tier", "reason"},
	)

	AnalyzerLatencySeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aieventing_analyzer_latency_seconds",
			Help:    "Time spent analyzing an exception end to end",
			Buckets: prometheus.DefBuckets,
		},
	)

	AnalyzerDedupedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aieventing_analyzer_deduped_total",
			Help: "Total fault analyses served from cache instead of calling the model",
		},
	)

	AnalyzerFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aieventing_analyzer_failures_total",
			Help: "Total fault analyses that failed to produce a diagnosis",
		},
	)

	AnalyzerQueueDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aieventing_analyzer_queue_dropped_total",
			Help: "Total fault-analysis submissions dropped because the worker pool was saturated",
		},
	)
)

// RecordCacheEviction is a small helper so cache tiers don't need to import
// prometheus label semantics directly.
func RecordCacheEviction(tier, reason string) {
	CacheEvictionsTotal.WithLabelValues(tier, reason).Inc()
}
