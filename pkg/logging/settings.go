package logging

import (
	"time"

	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/logevent"
	"github.com/DwaineDGIlmer/AiEventing-sub001/pkg/resilience"
)

// ResilientHTTPSettings configures the nested resilience pipeline (§4.6)
// the FaultAnalyzer's chat client runs behind. Each stage carries its own
// *Enabled flag; a disabled stage is left out of the composed transport
// entirely rather than configured as a pass-through, matching "each policy
// is independently disableable".
type ResilientHTTPSettings struct {
	TimeoutEnabled bool
	Timeout        time.Duration

	RetryEnabled   bool
	MaxAttempts    int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	JitterFraction float64

	CircuitBreakerEnabled bool
	FailureThreshold      int
	CoolingPeriod         time.Duration
	SuccessThreshold      int
	HalfOpenMaxCalls      int

	BulkheadEnabled bool
	MaxParallel     int
	MaxQueue        int
}

// ToResilienceConfig translates these settings into a resilience.Config
// for the named transport, omitting any stage whose *Enabled flag is off.
func (s ResilientHTTPSettings) ToResilienceConfig(name string) resilience.Config {
	cfg := resilience.Config{Name: name}
	if s.TimeoutEnabled {
		cfg.Timeout = &resilience.TimeoutConfig{Name: name, Timeout: s.Timeout}
	}
	if s.RetryEnabled {
		cfg.Retry = &resilience.RetryConfig{
			Name:           name,
			MaxAttempts:    s.MaxAttempts,
			BaseDelay:      s.BaseDelay,
			MaxDelay:       s.MaxDelay,
			JitterFraction: s.JitterFraction,
		}
	}
	if s.CircuitBreakerEnabled {
		cfg.Breaker = &resilience.CircuitBreakerConfig{
			Name:             name,
			FailureThreshold: s.FailureThreshold,
			CoolingPeriod:    s.CoolingPeriod,
			SuccessThreshold: s.SuccessThreshold,
			HalfOpenMaxCalls: s.HalfOpenMaxCalls,
		}
	}
	if s.BulkheadEnabled {
		cfg.Bulkhead = &resilience.BulkheadConfig{Name: name, MaxParallel: s.MaxParallel, MaxQueue: s.MaxQueue}
	}
	return cfg
}

// DefaultResilientHTTPSettings returns §4.6's defaults with every stage
// enabled.
func DefaultResilientHTTPSettings() ResilientHTTPSettings {
	return ResilientHTTPSettings{
		TimeoutEnabled: true,
		Timeout:        60 * time.Second,

		RetryEnabled:   true,
		MaxAttempts:    3,
		BaseDelay:      200 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		JitterFraction: 0.2,

		CircuitBreakerEnabled: true,
		FailureThreshold:      5,
		CoolingPeriod:         30 * time.Second,
		SuccessThreshold:      1,
		HalfOpenMaxCalls:      1,

		BulkheadEnabled: true,
		MaxParallel:     10,
		MaxQueue:        20,
	}
}

// Settings is the typed configuration surface §4.11 names. internal/config
// loads it from YAML and applies environment-variable overrides; embedders
// may also build one by hand and pass it straight to NewProvider.
type Settings struct {
	MinLogLevel         logevent.Level
	LoggingEnabled      bool
	FaultServiceEnabled bool
	PollingDelay        time.Duration

	ApplicationID string
	ComponentID   string
	DeploymentID  string
	Environment   string
	Version       string

	WriteIndented bool
	// DefaultIgnoreCondition mirrors the serializer's omit-when-null
	// policy (§4.1); true (the default) omits null/empty attributes from
	// a record's wire form. Left false a record carries every attribute
	// key, empty or not, which is occasionally useful for debugging a
	// downstream consumer that expects a fixed schema.
	DefaultIgnoreCondition    bool
	UnsafeRelaxedJSONEscaping bool

	CacheLocation string
	EnableCaching bool

	ResilientHTTPPolicy ResilientHTTPSettings
}

// DefaultSettings returns the spec's defaults (§4.11, §3): information
// threshold, logging on, fault analysis off, 20-minute fault cache TTL
// applied by the faultanalyzer package, compact null-omitting JSON.
func DefaultSettings() Settings {
	return Settings{
		MinLogLevel:               logevent.LevelInformation,
		LoggingEnabled:            true,
		FaultServiceEnabled:       false,
		PollingDelay:              100 * time.Millisecond,
		WriteIndented:             false,
		DefaultIgnoreCondition:    true,
		UnsafeRelaxedJSONEscaping: false,
		CacheLocation:             "",
		EnableCaching:             true,
		ResilientHTTPPolicy:       DefaultResilientHTTPSettings(),
	}
}
