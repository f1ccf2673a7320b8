package config

import "fmt"

// Validate performs the same "reject a misconfiguration before anything
// starts" check the teacher's ValidateConfig does (C12 in its comments),
// adapted from per-sink/server field checks to this module's Settings and
// resilience policy fields.
func Validate(cfg *AppConfig) error {
	s := &cfg.Settings

	if s.PollingDelay < 0 {
		return fmt.Errorf("config: polling delay must not be negative")
	}
	if s.MinLogLevel < 0 {
		return fmt.Errorf("config: invalid min log level")
	}

	p := &s.ResilientHTTPPolicy
	if p.TimeoutEnabled && p.Timeout <= 0 {
		return fmt.Errorf("config: resilient_http_policy.timeout must be positive when enabled")
	}
	if p.RetryEnabled {
		if p.MaxAttempts <= 0 {
			return fmt.Errorf("config: resilient_http_policy.max_attempts must be positive when retry is enabled")
		}
		if p.BaseDelay <= 0 {
			return fmt.Errorf("config: resilient_http_policy.base_delay must be positive when retry is enabled")
		}
		if p.MaxDelay < p.BaseDelay {
			return fmt.Errorf("config: resilient_http_policy.max_delay must not be less than base_delay")
		}
		if p.JitterFraction < 0 || p.JitterFraction > 1 {
			return fmt.Errorf("config: resilient_http_policy.jitter_fraction must be between 0 and 1")
		}
	}
	if p.CircuitBreakerEnabled {
		if p.FailureThreshold <= 0 {
			return fmt.Errorf("config: resilient_http_policy.failure_threshold must be positive when the circuit breaker is enabled")
		}
		if p.CoolingPeriod <= 0 {
			return fmt.Errorf("config: resilient_http_policy.cooling_period must be positive when the circuit breaker is enabled")
		}
	}
	if p.BulkheadEnabled {
		if p.MaxParallel <= 0 {
			return fmt.Errorf("config: resilient_http_policy.max_parallel must be positive when the bulkhead is enabled")
		}
		if p.MaxQueue < 0 {
			return fmt.Errorf("config: resilient_http_policy.max_queue must not be negative")
		}
	}

	if s.FaultServiceEnabled {
		if cfg.Chat.BaseAddress == "" {
			return fmt.Errorf("config: chat.base_address (or OPENAI_API_BASE_ADDRESS/RCASERVICE_API_URL) is required when fault_service_enabled is true")
		}
		if cfg.Chat.APIKey == "" {
			return fmt.Errorf("config: chat.api_key (or OPENAI_API_KEY/RCASERVICE_API_KEY) is required when fault_service_enabled is true")
		}
	}

	return nil
}
