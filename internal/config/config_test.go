package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/logevent"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/logging"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, logevent.LevelInformation, cfg.Settings.MinLogLevel)
	assert.True(t, cfg.Settings.LoggingEnabled)
	assert.False(t, cfg.Settings.FaultServiceEnabled)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, cfg.Settings.PollingDelay)
}

func TestLoadParsesYAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := `
min_log_level: warning
logging_enabled: true
fault_service_enabled: true
polling_delay: 250ms
application_id: app-1
environment: staging
chat:
  base_address: https://api.example.com
  endpoint: /v1/chat/completions
  api_key: file-key
  model: gpt-test
resilient_http_policy:
  retry_enabled: true
  max_attempts: 5
  base_delay: 100ms
  max_delay: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, logevent.LevelWarning, cfg.Settings.MinLogLevel)
	assert.Equal(t, 250*time.Millisecond, cfg.Settings.PollingDelay)
	assert.Equal(t, "app-1", cfg.Settings.ApplicationID)
	assert.Equal(t, "staging", cfg.Settings.Environment)
	assert.Equal(t, "https://api.example.com", cfg.Chat.BaseAddress)
	assert.Equal(t, "file-key", cfg.Chat.APIKey)
	assert.Equal(t, 5, cfg.Settings.ResilientHTTPPolicy.MaxAttempts)
}

func TestLoadMalformedYAMLFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, logevent.LevelInformation, cfg.Settings.MinLogLevel)
}

func TestEnvironmentOverridesTakePrecedenceOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
chat:
  api_key: file-key
  base_address: https://file.example.com
environment: from-file
`), 0o600))

	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("AIEVENTING_ENVIRONMENT", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.Chat.APIKey)
	assert.Equal(t, "from-env", cfg.Settings.Environment)
}

func TestRCAServiceEnvVarsOverrideOpenAIOnes(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("OPENAI_API_BASE_ADDRESS", "https://openai.example.com")
	t.Setenv("RCASERVICE_API_KEY", "rca-key")
	t.Setenv("RCASERVICE_API_URL", "https://rca.example.com")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "rca-key", cfg.Chat.APIKey)
	assert.Equal(t, "https://rca.example.com", cfg.Chat.BaseAddress)
}

func TestValidateRejectsNegativePollingDelay(t *testing.T) {
	cfg := &AppConfig{Settings: defaultValidSettings()}
	cfg.Settings.PollingDelay = -1
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsRetryWithoutBaseDelay(t *testing.T) {
	cfg := &AppConfig{Settings: defaultValidSettings()}
	cfg.Settings.ResilientHTTPPolicy.RetryEnabled = true
	cfg.Settings.ResilientHTTPPolicy.BaseDelay = 0
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsMaxDelayBelowBaseDelay(t *testing.T) {
	cfg := &AppConfig{Settings: defaultValidSettings()}
	cfg.Settings.ResilientHTTPPolicy.RetryEnabled = true
	cfg.Settings.ResilientHTTPPolicy.BaseDelay = time.Second
	cfg.Settings.ResilientHTTPPolicy.MaxDelay = 100 * time.Millisecond
	assert.Error(t, Validate(cfg))
}

func TestValidateRequiresChatCredentialsWhenFaultServiceEnabled(t *testing.T) {
	cfg := &AppConfig{Settings: defaultValidSettings()}
	cfg.Settings.FaultServiceEnabled = true
	assert.Error(t, Validate(cfg))

	cfg.Chat.BaseAddress = "https://api.example.com"
	cfg.Chat.APIKey = "key"
	assert.NoError(t, Validate(cfg))
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := &AppConfig{Settings: defaultValidSettings()}
	assert.NoError(t, Validate(cfg))
}

func defaultValidSettings() logging.Settings {
	return logging.DefaultSettings()
}
