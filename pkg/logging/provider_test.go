package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/logevent"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/publisher"
)

func TestNewProviderDefaultsToConsolePublisherWhenNoneGiven(t *testing.T) {
	p := NewProvider(DefaultSettings(), nil, nil, testInternalLogger())
	assert.Len(t, p.publishers, 1)
}

func TestProviderCreateLoggerSharesSettingsHolder(t *testing.T) {
	p := NewProvider(DefaultSettings(), nil, nil, testInternalLogger())
	logger := p.CreateLogger("cat")
	assert.Same(t, p.settings, logger.settings)
}

func TestProviderUpdateSettingsAffectsAlreadyCreatedLoggers(t *testing.T) {
	settings := DefaultSettings()
	settings.MinLogLevel = logevent.LevelInformation
	p := NewProvider(settings, nil, nil, testInternalLogger())
	logger := p.CreateLogger("cat")

	assert.True(t, logger.IsEnabled(logevent.LevelInformation))

	updated := DefaultSettings()
	updated.LoggingEnabled = false
	p.UpdateSettings(updated)

	assert.False(t, logger.IsEnabled(logevent.LevelInformation))
}

func TestProviderDisposeSucceedsWithoutAnalyzer(t *testing.T) {
	pub := &recordingPublisher{}
	p := NewProvider(DefaultSettings(), []publisher.Publisher{pub}, nil, testInternalLogger())
	require.NoError(t, p.Dispose(context.Background()))
}
