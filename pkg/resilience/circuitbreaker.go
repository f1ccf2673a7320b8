package resilience

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DwaineDGIlmer/AiEventing-sub001/internal/metrics"
)

// State is the circuit breaker's current position, adapted from the
// teacher's pkg/circuit.Breaker state machine.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) gaugeValue() float64 {
	switch s {
	case StateOpen:
		return 2
	case StateHalfOpen:
		return 1
	default:
		return 0
	}
}

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	Name string
	// FailureThreshold is the number of consecutive failures that opens the
	// circuit. Default 5.
	FailureThreshold int
	// CoolingPeriod is how long the circuit stays open before allowing a
	// half-open probe. Default 30s.
	CoolingPeriod time.Duration
	// SuccessThreshold is how many consecutive half-open successes close
	// the circuit. Default 1 (close on first success) — a deliberate
	// deviation from the teacher's default of 3; see DESIGN.md.
	SuccessThreshold int
	// HalfOpenMaxCalls caps concurrent probes while half-open.
	HalfOpenMaxCalls int
}

func (c *CircuitBreakerConfig) applyDefaults() {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.CoolingPeriod <= 0 {
		c.CoolingPeriod = 30 * time.Second
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = 1
	}
	if c.HalfOpenMaxCalls <= 0 {
		c.HalfOpenMaxCalls = 1
	}
}

// CircuitBreaker is a generic closed/open/half-open breaker around any
// fallible operation, adapted from the teacher's Docker-call-specific
// breaker to operate on an arbitrary func() error.
type CircuitBreaker struct {
	cfg    CircuitBreakerConfig
	logger *logrus.Logger

	mu               sync.Mutex
	state            State
	consecutiveFails int
	consecutiveOK    int
	openedAt         time.Time
	halfOpenInFlight int
}

func NewCircuitBreaker(cfg CircuitBreakerConfig, logger *logrus.Logger) *CircuitBreaker {
	cfg.applyDefaults()
	cb := &CircuitBreaker{cfg: cfg, logger: logger, state: StateClosed}
	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(StateClosed.gaugeValue())
	return cb
}

// Allow reports whether a call may proceed right now, reserving a
// half-open slot if the circuit has cooled down enough to probe.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(cb.openedAt) < cb.cfg.CoolingPeriod {
			return false
		}
		cb.transition(StateHalfOpen)
		fallthrough
	case StateHalfOpen:
		if cb.halfOpenInFlight >= cb.cfg.HalfOpenMaxCalls {
			return false
		}
		cb.halfOpenInFlight++
		return true
	}
	return false
}

// Report records the outcome of a call previously allowed by Allow.
func (cb *CircuitBreaker) Report(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.halfOpenInFlight--
	}

	if success {
		cb.consecutiveFails = 0
		cb.consecutiveOK++
		if cb.state == StateHalfOpen && cb.consecutiveOK >= cb.cfg.SuccessThreshold {
			cb.transition(StateClosed)
		}
		return
	}

	cb.consecutiveOK = 0
	if cb.state == StateHalfOpen {
		cb.transition(StateOpen)
		return
	}
	cb.consecutiveFails++
	if cb.consecutiveFails >= cb.cfg.FailureThreshold {
		cb.transition(StateOpen)
	}
}

// transition must be called with mu held.
func (cb *CircuitBreaker) transition(to State) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	if to == StateOpen {
		cb.openedAt = time.Now()
		cb.halfOpenInFlight = 0
	}
	if to == StateClosed {
		cb.consecutiveFails = 0
		cb.consecutiveOK = 0
	}
	metrics.CircuitBreakerState.WithLabelValues(cb.cfg.Name).Set(to.gaugeValue())
	cb.logger.WithFields(logrus.Fields{
		"breaker": cb.cfg.Name,
		"from":    from,
		"to":      to,
	}).Info("circuit breaker state transition")
}

func (cb *CircuitBreaker) CurrentState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
