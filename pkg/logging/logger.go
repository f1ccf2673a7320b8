// Package logging implements the Logger/Provider/Factory pipeline
// (§4.9-§4.11): per-category, severity-filtered loggers that build
// OTEL-shaped LogEvents, hand them to one or more Publishers, and
// optionally fan an exception-bearing record out to a FaultAnalyzer.
// Grounded on the teacher's provider-less, category-based logging wiring
// in internal/app plus pkg/types/config.go's root-config composition
// style for Settings; scope storage uses a context.Context-based stack,
// the idiomatic Go replacement for the source material's thread-local
// scope state (see scope.go).
package logging

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/faultanalyzer"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/fingerprint"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/logevent"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/publisher"
)

// Logger is one category's entry point into the pipeline (§4.9). It
// satisfies faultanalyzer.Emitter so a FaultAnalyzer can publish its own
// diagnostic records through the same Logger that submitted the analysis.
type Logger struct {
	category   string
	settings   *SettingsHolder
	publishers []publisher.Publisher
	analyzer   *faultanalyzer.FaultAnalyzer
	internal   *logrus.Logger
}

func newLogger(category string, settings *SettingsHolder, publishers []publisher.Publisher, analyzer *faultanalyzer.FaultAnalyzer, internal *logrus.Logger) *Logger {
	if internal == nil {
		internal = logrus.New()
	}
	return &Logger{
		category:   category,
		settings:   settings,
		publishers: publishers,
		analyzer:   analyzer,
		internal:   internal,
	}
}

// IsEnabled reports whether level would be written under this Logger's
// current settings (§4.9): monotonic in level for a fixed settings value
// (testable property 4), and false outright when the master switch is
// off.
func (l *Logger) IsEnabled(level logevent.Level) bool {
	s := l.settings.Get()
	return s.LoggingEnabled && level.Enabled(s.MinLogLevel)
}

// BeginScope is a convenience wrapper over the package-level BeginScope so
// call sites can write logger.BeginScope(ctx, "...") without a separate
// import alias.
func (l *Logger) BeginScope(ctx context.Context, state string) context.Context {
	return BeginScope(ctx, state)
}

// Log implements §4.9's log(level, eventId, state, exception?, formatter)
// pipeline. eventID is carried only as an attribute tag (it has no
// structural role beyond what the caller wants to correlate by); err, if
// non-nil, drives both the record's exception payload and its dedup
// fingerprint, and triggers fault analysis when the analyzer is wired and
// enabled.
func (l *Logger) Log(ctx context.Context, level logevent.Level, eventID int, err error, format string, args ...interface{}) {
	if !l.IsEnabled(level) {
		return
	}
	defer l.recoverInternal()

	s := l.settings.Get()
	body := scopePrefix(ctx) + fmt.Sprintf(format, args...)

	event := &logevent.LogEvent{
		Timestamp:              time.Now().UTC(),
		Level:                  level,
		Category:               l.category,
		Body:                   body,
		ApplicationID:          s.ApplicationID,
		ComponentID:            s.ComponentID,
		DeploymentID:           s.DeploymentID,
		Environment:            s.Environment,
		Version:                s.Version,
		Tags:                   map[string]string{"event_id": fmt.Sprintf("%d", eventID)},
		IncludeEmptyAttributes: !s.DefaultIgnoreCondition,
	}

	l.attachTracing(ctx, event)

	if err != nil {
		event.Exception = logevent.NewSerializedException(err)
		event.ID = exceptionFingerprint(event.Exception)
	} else {
		event.ID = bodyFingerprint(event.Body)
	}

	if err != nil && l.analyzer != nil && s.FaultServiceEnabled {
		l.analyzer.Submit(event, l)
	}

	l.publish(event)
}

// attachTracing resolves trace/span ids from ctx's ambient OTEL span
// (§4.9 step 4). Absent a live span, it synthesizes a fresh correlation id
// rather than leaving the record uncorrelatable.
func (l *Logger) attachTracing(ctx context.Context, event *logevent.LogEvent) {
	sc := oteltrace.SpanFromContext(ctx).SpanContext()
	if sc.IsValid() {
		event.TraceID = sc.TraceID().String()
		event.SpanID = sc.SpanID().String()
		event.CorrelationID = event.TraceID
		return
	}
	event.CorrelationID = uuid.NewString()
}

// Emit satisfies faultanalyzer.Emitter: it publishes a diagnostic record
// carrying no exception of its own, so it can never recursively trigger
// another round of fault analysis. Diagnostics bypass MinLogLevel (the
// analyzer emits at Debug) but are dropped when logging is disabled.
func (l *Logger) Emit(level logevent.Level, body string) {
	s := l.settings.Get()
	if !s.LoggingEnabled {
		return
	}
	event := &logevent.LogEvent{
		Timestamp:     time.Now().UTC(),
		Level:         level,
		Category:      l.category,
		Body:          body,
		ApplicationID: s.ApplicationID,
		ComponentID:   s.ComponentID,
		DeploymentID:  s.DeploymentID,
		Environment:   s.Environment,
		Version:       s.Version,
		CorrelationID: uuid.NewString(),
	}
	event.ID = bodyFingerprint(event.Body)
	l.publish(event)
}

func (l *Logger) publish(event *logevent.LogEvent) {
	payload, err := event.Serialize()
	if err != nil {
		l.internal.WithError(err).WithField("category", l.category).Error("failed to serialize log event")
		return
	}
	for _, p := range l.publishers {
		p.WriteLine(context.Background(), payload)
	}
}

// recoverInternal implements §4.9's error policy and §7's "internal
// unexpected errors" clause: any panic during record construction or
// publish is caught here, never propagated to the call site, and a
// best-effort internal error record is still emitted if the publish path
// itself is healthy.
func (l *Logger) recoverInternal() {
	r := recover()
	if r == nil {
		return
	}
	l.internal.WithField("category", l.category).WithField("panic", r).Error("recovered from panic during log construction")

	event := &logevent.LogEvent{
		Timestamp: time.Now().UTC(),
		Level:     logevent.LevelError,
		Category:  l.category,
		Body:      fmt.Sprintf("internal logging error: %v", r),
	}
	event.ID = bodyFingerprint(event.Body)
	l.publish(event)
}

// exceptionFingerprint computes §4.3's content hash for an exception
// payload, splitting its flattened stack text back into per-line frames
// for normalization.
func exceptionFingerprint(se *logevent.SerializedException) string {
	if se == nil {
		return ""
	}
	return fingerprint.Compute(se.Type, se.Message, fingerprint.SplitFrames(se.StackTrace))
}

// bodyFingerprint computes a record's dedup id from its body alone, used
// when there is no exception to fingerprint (§3 invariant b).
func bodyFingerprint(body string) string {
	return fingerprint.Compute("", body, nil)
}
