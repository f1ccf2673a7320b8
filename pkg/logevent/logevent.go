// Package logevent defines the record this module's Logger produces and
// its OTEL-log-data-model-shaped JSON wire encoding.
package logevent

import (
	"time"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/serializer"
)

// LogEvent is one emitted log record, independent of wire format.
type LogEvent struct {
	ID             string
	Timestamp      time.Time
	Level          Level
	Category       string
	Body           string
	TraceID        string
	SpanID         string
	CorrelationID  string
	ApplicationID  string
	ComponentID    string
	DeploymentID   string
	Environment    string
	Version        string
	Tags           map[string]string
	Exception      *SerializedException
	LineNumber     *int
	// IncludeEmptyAttributes disables the default null/empty-omission
	// policy (§4.11 defaultIgnoreCondition) for this record's attributes
	// bag; most callers leave this false.
	IncludeEmptyAttributes bool
}

// reserved attribute keys this module always fills in itself; a tag using
// one of these names is dropped rather than allowed to clobber it.
var reservedAttributeKeys = map[string]struct{}{
	"source": {}, "correlation_id": {}, "exception.type": {},
	"exception.message": {}, "exception.stacktrace": {},
	"application_id": {}, "component_id": {}, "deployment_id": {},
	"environment": {}, "version": {}, "line_number": {},
}

// wireEvent is the OTEL-log-data-model-shaped JSON record (§4.2, §6):
// timestamp, severity_text/severity_number, body, trace/span id, and a flat
// attributes bag.
type wireEvent struct {
	Timestamp      int64                  `json:"timestamp"`
	SeverityText   string                 `json:"severity_text"`
	SeverityNumber int                    `json:"severity_number"`
	Body           string                 `json:"body"`
	TraceID        string                 `json:"trace_id,omitempty"`
	SpanID         string                 `json:"span_id,omitempty"`
	Attributes     map[string]interface{} `json:"attributes"`
}

func (e *LogEvent) toWire() *wireEvent {
	attrs := make(map[string]interface{}, len(e.Tags)+10)

	setIfNotEmpty := func(key, value string) {
		if value != "" || e.IncludeEmptyAttributes {
			attrs[key] = value
		}
	}

	setIfNotEmpty("source", e.Category)
	setIfNotEmpty("correlation_id", e.CorrelationID)
	setIfNotEmpty("application_id", e.ApplicationID)
	setIfNotEmpty("component_id", e.ComponentID)
	setIfNotEmpty("deployment_id", e.DeploymentID)
	setIfNotEmpty("environment", e.Environment)
	setIfNotEmpty("version", e.Version)
	if e.LineNumber != nil {
		attrs["line_number"] = *e.LineNumber
	}
	if e.Exception != nil {
		setIfNotEmpty("exception.type", e.Exception.Type)
		setIfNotEmpty("exception.message", e.Exception.Message)
		setIfNotEmpty("exception.stacktrace", e.Exception.StackTrace)
	}
	for k, v := range e.Tags {
		if _, reserved := reservedAttributeKeys[k]; reserved {
			continue
		}
		attrs[k] = v
	}

	return &wireEvent{
		Timestamp:      e.Timestamp.UnixNano(),
		SeverityText:   e.Level.severityText(),
		SeverityNumber: e.Level.severityNumber(),
		Body:           e.Body,
		TraceID:        e.TraceID,
		SpanID:         e.SpanID,
		Attributes:     attrs,
	}
}

// Serialize renders the event as its OTEL-shaped compact JSON wire form.
func (e *LogEvent) Serialize() (string, error) {
	return serializer.Serialize(e.toWire())
}
