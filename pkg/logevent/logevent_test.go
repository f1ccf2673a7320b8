package logevent

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeProducesOTELShapedRecord(t *testing.T) {
	ev := &LogEvent{
		Timestamp:     time.Unix(0, 1700000000000000000),
		Level:         LevelError,
		Category:      "billing.worker",
		Body:          "payment failed",
		TraceID:       "trace-1",
		CorrelationID: "corr-1",
		Tags:          map[string]string{"order_id": "42"},
	}

	s, err := ev.Serialize()
	require.NoError(t, err)
	assert.Contains(t, s, `"severity_text":"ERROR"`)
	assert.Contains(t, s, `"severity_number":17`)
	assert.Contains(t, s, `"trace_id":"trace-1"`)
	assert.Contains(t, s, `"order_id":"42"`)
	assert.Contains(t, s, `"source":"billing.worker"`)
}

func TestSerializeOmitsAbsentOptionalFields(t *testing.T) {
	ev := &LogEvent{Timestamp: time.Now(), Level: LevelInformation, Body: "ok"}
	s, err := ev.Serialize()
	require.NoError(t, err)
	assert.NotContains(t, s, "trace_id")
	assert.NotContains(t, s, "span_id")
}

func TestNewSerializedExceptionWalksUnwrapChain(t *testing.T) {
	root := errors.New("root cause")
	wrapped := fmt.Errorf("outer: %w", root)

	se := NewSerializedException(wrapped)
	require.NotNil(t, se)
	assert.Equal(t, "outer: root cause", se.Message)
	require.Len(t, se.InnerExceptions, 1)
	assert.Equal(t, "root cause", se.InnerExceptions[0].Message)
}

type cyclicError struct{ inner error }

func (c *cyclicError) Error() string  { return "cyclic" }
func (c *cyclicError) Unwrap() error  { return c.inner }

func TestNewSerializedExceptionBreaksCycles(t *testing.T) {
	c := &cyclicError{}
	c.inner = c // self-referential chain

	se := NewSerializedException(c)
	require.NotNil(t, se)
	assert.Empty(t, se.InnerExceptions, "cycle must not be followed")
}

func TestLevelEnabledIsMonotonic(t *testing.T) {
	assert.True(t, LevelError.Enabled(LevelWarning))
	assert.False(t, LevelDebug.Enabled(LevelWarning))
}
