package publisher

import (
	"context"

	"github.com/sirupsen/logrus"
)

// EventSourceSink emits each record through the structured logger at trace
// level, the spec's named diagnostic/tracing Publisher variant (§4.4) —
// useful for wiring an embedder's own trace pipeline without a network
// dependency.
type EventSourceSink struct {
	logger *logrus.Logger
	source string
}

func NewEventSourceSink(logger *logrus.Logger, source string) *EventSourceSink {
	return &EventSourceSink{logger: logger, source: source}
}

func (e *EventSourceSink) WriteMessage(_ context.Context, message string) error {
	e.logger.WithField("source", e.source).Trace(message)
	return nil
}
