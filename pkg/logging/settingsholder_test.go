package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/logevent"
)

func TestSettingsHolderGetReturnsStoredValue(t *testing.T) {
	h := NewSettingsHolder(DefaultSettings())
	assert.Equal(t, logevent.LevelInformation, h.Get().MinLogLevel)
}

func TestSettingsHolderStoreReplacesValue(t *testing.T) {
	h := NewSettingsHolder(DefaultSettings())
	updated := DefaultSettings()
	updated.MinLogLevel = logevent.LevelCritical
	h.Store(updated)
	assert.Equal(t, logevent.LevelCritical, h.Get().MinLogLevel)
}
