// Package benchmarks carries this module's throughput/allocation
// benchmarks for the pieces that sit on a process's hot path, grounded on
// the teacher's benchmarks package shape (MockSink + B.N loop against a
// dispatcher) but retargeted at the QueuedPublisher/fingerprint/serializer
// components this module actually has.
package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/fingerprint"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/logevent"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/publisher"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/serializer"
)

type nullSink struct{}

func (nullSink) WriteMessage(_ context.Context, _ string) error { return nil }

// BenchmarkQueuedPublisherWriteLine measures steady-state enqueue
// throughput against a sink that discards everything, isolating the
// publisher's own queueing/backpressure cost from any real sink latency.
func BenchmarkQueuedPublisherWriteLine(b *testing.B) {
	p := publisher.New(nullSink{}, publisher.Config{Name: "bench", HighWaterMark: 10000}, nil)
	defer func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_ = p.Dispose(ctx)
	}()

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		<-p.WriteLine(ctx, "benchmark record")
	}
}

// BenchmarkFingerprintCompute measures the dedup hash's cost over a
// realistic multi-frame stack trace.
func BenchmarkFingerprintCompute(b *testing.B) {
	frames := fingerprint.SplitFrames("main.run\n\t/app/main.go:42\nmain.handle\n\t/app/handler.go:17")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fingerprint.Compute("*errors.errorString", "connection refused", frames)
	}
}

// BenchmarkLogEventSerialize measures the serializer's allocation cost for
// a single LogEvent, the unit of work every published record pays once.
func BenchmarkLogEventSerialize(b *testing.B) {
	if err := serializer.Init(serializer.Options{}); err != nil {
		b.Fatalf("serializer.Init: %v", err)
	}
	event := &logevent.LogEvent{
		Body:          "benchmark body",
		Level:         logevent.LevelInformation,
		Category:      "benchmarks",
		ApplicationID: "bench-app",
		Tags:          map[string]string{"iteration": fmt.Sprintf("%d", 0)},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := event.Serialize(); err != nil {
			b.Fatalf("Serialize: %v", err)
		}
	}
}
