package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToResilienceConfigOmitsDisabledStages(t *testing.T) {
	s := DefaultResilientHTTPSettings()
	s.RetryEnabled = false
	s.BulkheadEnabled = false

	cfg := s.ToResilienceConfig("chat")

	require.NotNil(t, cfg.Timeout)
	require.NotNil(t, cfg.Breaker)
	assert.Nil(t, cfg.Retry)
	assert.Nil(t, cfg.Bulkhead)
}

func TestToResilienceConfigCarriesEveryStageWhenAllEnabled(t *testing.T) {
	cfg := DefaultResilientHTTPSettings().ToResilienceConfig("chat")

	require.NotNil(t, cfg.Timeout)
	require.NotNil(t, cfg.Retry)
	require.NotNil(t, cfg.Breaker)
	require.NotNil(t, cfg.Bulkhead)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 5, cfg.Breaker.FailureThreshold)
	assert.Equal(t, 10, cfg.Bulkhead.MaxParallel)
}

func TestDefaultSettingsMatchesSpecDefaults(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.LoggingEnabled)
	assert.False(t, s.FaultServiceEnabled)
	assert.True(t, s.DefaultIgnoreCondition)
	assert.True(t, s.EnableCaching)
}
