// Package config loads this module's Settings from a YAML file plus
// environment-variable overrides, adapted from the teacher's
// internal/config applyDefaults/applyEnvironmentOverrides/getEnv* pattern
// (§4.11, §6).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/chatclient"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/logevent"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/logging"
)

// fileSettings is the YAML projection of logging.Settings plus the
// analyzer's chat-completion endpoint, kept as a separate type (rather
// than tagging logging.Settings directly) so pkg/logging has no
// dependency on gopkg.in/yaml.v2.
type fileSettings struct {
	MinLogLevel         string `yaml:"min_log_level"`
	LoggingEnabled      *bool  `yaml:"logging_enabled"`
	FaultServiceEnabled *bool  `yaml:"fault_service_enabled"`
	PollingDelay        string `yaml:"polling_delay"`

	ApplicationID string `yaml:"application_id"`
	ComponentID   string `yaml:"component_id"`
	DeploymentID  string `yaml:"deployment_id"`
	Environment   string `yaml:"environment"`
	Version       string `yaml:"version"`

	WriteIndented             *bool `yaml:"write_indented"`
	DefaultIgnoreCondition    *bool `yaml:"default_ignore_condition"`
	UnsafeRelaxedJSONEscaping *bool `yaml:"unsafe_relaxed_json_escaping"`

	CacheLocation string `yaml:"cache_location"`
	EnableCaching *bool  `yaml:"enable_caching"`

	ResilientHTTPPolicy fileResiliencePolicy `yaml:"resilient_http_policy"`

	Chat fileChatConfig `yaml:"chat"`
}

type fileResiliencePolicy struct {
	TimeoutEnabled *bool  `yaml:"timeout_enabled"`
	Timeout        string `yaml:"timeout"`

	RetryEnabled   *bool   `yaml:"retry_enabled"`
	MaxAttempts    int     `yaml:"max_attempts"`
	BaseDelay      string  `yaml:"base_delay"`
	MaxDelay       string  `yaml:"max_delay"`
	JitterFraction float64 `yaml:"jitter_fraction"`

	CircuitBreakerEnabled *bool  `yaml:"circuit_breaker_enabled"`
	FailureThreshold      int    `yaml:"failure_threshold"`
	CoolingPeriod         string `yaml:"cooling_period"`
	SuccessThreshold      int    `yaml:"success_threshold"`
	HalfOpenMaxCalls      int    `yaml:"half_open_max_calls"`

	BulkheadEnabled *bool `yaml:"bulkhead_enabled"`
	MaxParallel     int   `yaml:"max_parallel"`
	MaxQueue        int   `yaml:"max_queue"`
}

type fileChatConfig struct {
	BaseAddress string `yaml:"base_address"`
	Endpoint    string `yaml:"endpoint"`
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`
}

// AppConfig bundles the Logger's Settings with the FaultAnalyzer's
// upstream chat-completion endpoint, the two things a config file and its
// environment overrides populate together.
type AppConfig struct {
	Settings logging.Settings
	Chat     chatclient.Config
}

// Load reads path (if non-empty) as YAML, applies §4.11's defaults, then
// environment-variable overrides (§6), and validates the result. An
// unreadable or malformed file is a warning, not a fatal error — matching
// the teacher's "fall back to defaults" tolerance for a missing config
// file — but a file that parses into an invalid configuration (e.g. a
// negative polling delay) fails Load outright.
func Load(path string) (*AppConfig, error) {
	var fs fileSettings
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: failed to read %s, using defaults: %v\n", path, err)
		} else if err := yaml.Unmarshal(raw, &fs); err != nil {
			fmt.Fprintf(os.Stderr, "config: failed to parse %s, using defaults: %v\n", path, err)
		}
	}

	cfg := fromFile(fs)
	applyEnvironmentOverrides(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func fromFile(fs fileSettings) AppConfig {
	s := logging.DefaultSettings()

	if fs.MinLogLevel != "" {
		if lvl, ok := parseLevel(fs.MinLogLevel); ok {
			s.MinLogLevel = lvl
		}
	}
	applyBool(&s.LoggingEnabled, fs.LoggingEnabled)
	applyBool(&s.FaultServiceEnabled, fs.FaultServiceEnabled)
	if d, ok := parseDuration(fs.PollingDelay); ok {
		s.PollingDelay = d
	}

	if fs.ApplicationID != "" {
		s.ApplicationID = fs.ApplicationID
	}
	if fs.ComponentID != "" {
		s.ComponentID = fs.ComponentID
	}
	if fs.DeploymentID != "" {
		s.DeploymentID = fs.DeploymentID
	}
	if fs.Environment != "" {
		s.Environment = fs.Environment
	}
	if fs.Version != "" {
		s.Version = fs.Version
	}

	applyBool(&s.WriteIndented, fs.WriteIndented)
	applyBool(&s.DefaultIgnoreCondition, fs.DefaultIgnoreCondition)
	applyBool(&s.UnsafeRelaxedJSONEscaping, fs.UnsafeRelaxedJSONEscaping)

	if fs.CacheLocation != "" {
		s.CacheLocation = fs.CacheLocation
	}
	applyBool(&s.EnableCaching, fs.EnableCaching)

	applyResiliencePolicy(&s.ResilientHTTPPolicy, fs.ResilientHTTPPolicy)

	return AppConfig{
		Settings: s,
		Chat: chatclient.Config{
			BaseAddress: fs.Chat.BaseAddress,
			Endpoint:    fs.Chat.Endpoint,
			APIKey:      fs.Chat.APIKey,
			Model:       fs.Chat.Model,
		},
	}
}

func applyResiliencePolicy(p *logging.ResilientHTTPSettings, fp fileResiliencePolicy) {
	applyBool(&p.TimeoutEnabled, fp.TimeoutEnabled)
	if d, ok := parseDuration(fp.Timeout); ok {
		p.Timeout = d
	}

	applyBool(&p.RetryEnabled, fp.RetryEnabled)
	if fp.MaxAttempts > 0 {
		p.MaxAttempts = fp.MaxAttempts
	}
	if d, ok := parseDuration(fp.BaseDelay); ok {
		p.BaseDelay = d
	}
	if d, ok := parseDuration(fp.MaxDelay); ok {
		p.MaxDelay = d
	}
	if fp.JitterFraction > 0 {
		p.JitterFraction = fp.JitterFraction
	}

	applyBool(&p.CircuitBreakerEnabled, fp.CircuitBreakerEnabled)
	if fp.FailureThreshold > 0 {
		p.FailureThreshold = fp.FailureThreshold
	}
	if d, ok := parseDuration(fp.CoolingPeriod); ok {
		p.CoolingPeriod = d
	}
	if fp.SuccessThreshold > 0 {
		p.SuccessThreshold = fp.SuccessThreshold
	}
	if fp.HalfOpenMaxCalls > 0 {
		p.HalfOpenMaxCalls = fp.HalfOpenMaxCalls
	}

	applyBool(&p.BulkheadEnabled, fp.BulkheadEnabled)
	if fp.MaxParallel > 0 {
		p.MaxParallel = fp.MaxParallel
	}
	if fp.MaxQueue > 0 {
		p.MaxQueue = fp.MaxQueue
	}
}

func applyBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func parseLevel(s string) (logevent.Level, bool) {
	switch s {
	case "trace":
		return logevent.LevelTrace, true
	case "debug":
		return logevent.LevelDebug, true
	case "information", "info":
		return logevent.LevelInformation, true
	case "warning", "warn":
		return logevent.LevelWarning, true
	case "error":
		return logevent.LevelError, true
	case "critical", "fatal":
		return logevent.LevelCritical, true
	default:
		return 0, false
	}
}

func parseDuration(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, false
	}
	return d, true
}

// applyEnvironmentOverrides applies §6's environment variables over
// whatever Load already derived from the config file, matching the
// teacher's "env wins over file" precedence. OPENAI_* configures the
// primary chat-completion endpoint; RCASERVICE_* (the fault-analysis
// service's own key/URL, §6) takes precedence over it when both are set —
// the two env-var groups address the same chatclient.Config, resolving
// §9's "two parallel shapes" open question by treating RCASERVICE_* as an
// override of OPENAI_* rather than a second parallel client.
func applyEnvironmentOverrides(cfg *AppConfig) {
	cfg.Chat.BaseAddress = getEnvString("OPENAI_API_BASE_ADDRESS", cfg.Chat.BaseAddress)
	cfg.Chat.Endpoint = getEnvString("OPENAI_API_ENDPOINT", cfg.Chat.Endpoint)
	cfg.Chat.Model = getEnvString("OPENAI_MODEL", cfg.Chat.Model)
	cfg.Chat.APIKey = getEnvString("OPENAI_API_KEY", cfg.Chat.APIKey)

	cfg.Chat.APIKey = getEnvString("RCASERVICE_API_KEY", cfg.Chat.APIKey)
	if url := getEnvString("RCASERVICE_API_URL", ""); url != "" {
		cfg.Chat.BaseAddress = url
	}

	cfg.Settings.CacheLocation = getEnvString("AIEVENTING_CACHE_LOCATION", cfg.Settings.CacheLocation)
	cfg.Settings.Environment = getEnvString("AIEVENTING_ENVIRONMENT", cfg.Settings.Environment)
	if lvl := getEnvString("AIEVENTING_MIN_LOG_LEVEL", ""); lvl != "" {
		if parsed, ok := parseLevel(lvl); ok {
			cfg.Settings.MinLogLevel = parsed
		}
	}
	cfg.Settings.LoggingEnabled = getEnvBool("AIEVENTING_LOGGING_ENABLED", cfg.Settings.LoggingEnabled)
	cfg.Settings.FaultServiceEnabled = getEnvBool("AIEVENTING_FAULT_SERVICE_ENABLED", cfg.Settings.FaultServiceEnabled)
	cfg.Settings.PollingDelay = getEnvDuration("AIEVENTING_POLLING_DELAY", cfg.Settings.PollingDelay)
}

func getEnvString(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
