// Package publisher implements the asynchronous, queued Publisher (§4.4):
// a bounded in-memory queue drained by a single background worker, backed
// by pluggable Sink implementations.
package publisher

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DwaineDGIlmer/AiEventing-sub001/internal/metrics"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/apperr"
)

// Sink delivers one already-serialized record somewhere: stdout, a file, a
// broker. Neither the publisher's drain loop nor this package adds
// retries; any retrying is done by a sink's own client library (e.g.
// Sarama's RetryMax for KafkaSink).
type Sink interface {
	WriteMessage(ctx context.Context, message string) error
}

// Future resolves to the outcome of one Write/WriteLine call once the
// publisher's drain worker has processed it.
type Future <-chan error

func newFuture() (Future, func(error)) {
	ch := make(chan error, 1)
	return ch, func(err error) {
		ch <- err
		close(ch)
	}
}

// Publisher is the embedder-facing interface (§4.4): write a record,
// optionally with a trailing newline, and dispose cleanly on shutdown.
type Publisher interface {
	Write(ctx context.Context, message string) Future
	WriteLine(ctx context.Context, message string) Future
	Dispose(ctx context.Context) error
}

type queueItem struct {
	message string
	resolve func(error)
}

// Config tunes a QueuedPublisher.
type Config struct {
	Name string
	// HighWaterMark bounds the queue; above it, the oldest queued record is
	// dropped to make room for the new one. Default 1000.
	HighWaterMark int
	// PollingDelay paces the drain loop's idle tick, matching the teacher's
	// ticker-driven background loops instead of a bare channel range.
	// Default 100ms.
	PollingDelay time.Duration
	// DisposeDeadline bounds how long Dispose waits for the queue to drain
	// before abandoning the rest. Default 2s.
	DisposeDeadline time.Duration
}

func (c *Config) applyDefaults() {
	if c.HighWaterMark <= 0 {
		c.HighWaterMark = 1000
	}
	if c.PollingDelay <= 0 {
		c.PollingDelay = 100 * time.Millisecond
	}
	if c.DisposeDeadline <= 0 {
		c.DisposeDeadline = 2 * time.Second
	}
}

// QueuedPublisher is the spec's core Publisher implementation, adapted
// from the teacher's internal/dispatcher queue+worker shape generalized
// from a batch dispatcher to a one-record-at-a-time publisher.
type QueuedPublisher struct {
	cfg    Config
	sink   Sink
	logger *logrus.Logger

	queue chan queueItem
	stop  chan struct{}
	wg    sync.WaitGroup
	once  sync.Once

	totalEvents uint64
	dropped     uint64
	errors      uint64
}

func New(sink Sink, cfg Config, logger *logrus.Logger) *QueuedPublisher {
	cfg.applyDefaults()
	p := &QueuedPublisher{
		cfg:    cfg,
		sink:   sink,
		logger: logger,
		queue:  make(chan queueItem, cfg.HighWaterMark),
		stop:   make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

func (p *QueuedPublisher) Write(ctx context.Context, message string) Future {
	return p.enqueue(message)
}

func (p *QueuedPublisher) WriteLine(ctx context.Context, message string) Future {
	return p.enqueue(message + "\n")
}

func (p *QueuedPublisher) enqueue(message string) Future {
	future, resolve := newFuture()
	if strings.TrimSpace(message) == "" {
		resolve(nil)
		return future
	}

	item := queueItem{message: message, resolve: resolve}
	select {
	case p.queue <- item:
		metrics.PublisherQueueDepth.WithLabelValues(p.cfg.Name).Set(float64(len(p.queue)))
		return future
	default:
		p.dropOldest()
		select {
		case p.queue <- item:
		default:
			// the drain worker raced us and drained faster than we could
			// resubmit; treat as a drop rather than blocking.
			atomic.AddUint64(&p.dropped, 1)
			resolve(apperr.PublisherDropped("publisher", p.cfg.Name))
		}
		metrics.PublisherQueueDepth.WithLabelValues(p.cfg.Name).Set(float64(len(p.queue)))
		return future
	}
}

func (p *QueuedPublisher) dropOldest() {
	select {
	case old := <-p.queue:
		atomic.AddUint64(&p.dropped, 1)
		metrics.PublisherDroppedTotal.WithLabelValues(p.cfg.Name).Inc()
		old.resolve(apperr.PublisherDropped("publisher", p.cfg.Name))
	default:
	}
}

func (p *QueuedPublisher) run() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.cfg.PollingDelay)
	defer ticker.Stop()

	for {
		select {
		case item, ok := <-p.queue:
			if !ok {
				return
			}
			p.deliver(item)
		case <-p.stop:
			p.drainRemaining()
			return
		case <-ticker.C:
			// idle tick; paces the loop when the queue is briefly empty.
		}
	}
}

func (p *QueuedPublisher) drainRemaining() {
	for {
		select {
		case item, ok := <-p.queue:
			if !ok {
				return
			}
			p.deliver(item)
		default:
			return
		}
	}
}

func (p *QueuedPublisher) deliver(item queueItem) {
	err := p.sink.WriteMessage(context.Background(), item.message)
	if err != nil {
		atomic.AddUint64(&p.errors, 1)
		metrics.PublisherErrorsTotal.WithLabelValues(p.cfg.Name).Inc()
		p.logger.WithError(err).WithField("publisher", p.cfg.Name).Warn("publisher sink write failed")
		item.resolve(err)
		return
	}
	atomic.AddUint64(&p.totalEvents, 1)
	metrics.PublisherEventsTotal.WithLabelValues(p.cfg.Name).Inc()
	item.resolve(nil)
}

// Dispose stops the drain worker, which delivers what is queued at that
// moment, and waits up to DisposeDeadline for it before abandoning
// whatever remains. Writes made after Dispose are still queued but never
// delivered. Idempotent.
func (p *QueuedPublisher) Dispose(ctx context.Context) error {
	p.once.Do(func() {
		close(p.stop)

		done := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(p.cfg.DisposeDeadline):
			p.logger.WithField("publisher", p.cfg.Name).Warn("dispose deadline exceeded, abandoning remaining queue")
		case <-ctx.Done():
		}
	})
	return nil
}

// Stats reports the publisher's lifetime counters, used by the health
// server and by tests.
func (p *QueuedPublisher) Stats() (total, dropped, errors uint64) {
	return atomic.LoadUint64(&p.totalEvents), atomic.LoadUint64(&p.dropped), atomic.LoadUint64(&p.errors)
}
