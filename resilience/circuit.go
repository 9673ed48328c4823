package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls pass through normally.
	StateClosed State = iota
	// StateOpen means calls are rejected without touching the device.
	StateOpen
	// StateHalfOpen means exactly one trial call is probing recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens
	// the circuit. A single success resets the run to zero.
	// Default: 5
	FailureThreshold int

	// Cooldown is how long the circuit stays open before the next call is
	// let through as a recovery probe.
	// Default: 30 seconds
	Cooldown time.Duration

	// ExcludeErrors lists error kinds (matched with errors.Is) that say
	// nothing about target health, such as local pool exhaustion. Excluded
	// errors are neutral: they neither trip nor reset the breaker.
	ExcludeErrors []error

	// IsFailure decides whether a non-excluded error counts as a failure.
	// Default: all non-nil errors are failures.
	IsFailure func(err error) bool

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)
}

// CircuitBreaker guards a single target device. It tracks consecutive
// failures and forces fast-fail once the threshold is crossed, recovering
// automatically after the cooldown.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu                  sync.Mutex
	state               State
	consecutiveFailures int
	totalFailures       int64
	totalSuccesses      int64
	totalRejections     int64
	openedAt            time.Time
	probeInFlight       bool
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.Cooldown <= 0 {
		config.Cooldown = 30 * time.Second
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute runs the operation through the circuit breaker. When the circuit
// is open it returns ErrCircuitOpen without invoking op. When the cooldown
// has elapsed the next call becomes the half-open probe; its outcome alone
// decides the next state.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	err := op(ctx)
	cb.afterCall(err)
	return err
}

// State returns the current circuit state, accounting for cooldown expiry.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Reset forces the circuit closed and clears the failure run. It is the
// manual operator override for use after a device has been fixed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	oldState := cb.state
	cb.state = StateClosed
	cb.consecutiveFailures = 0
	cb.probeInFlight = false

	if oldState != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, StateClosed)
	}
}

// Stats returns a snapshot of the breaker's counters and state.
func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerStats{
		State:               cb.currentStateLocked(),
		ConsecutiveFailures: cb.consecutiveFailures,
		TotalFailures:       cb.totalFailures,
		TotalSuccesses:      cb.totalSuccesses,
		TotalRejections:     cb.totalRejections,
		OpenedAt:            cb.openedAt,
	}
}

// CircuitBreakerStats is a read-only snapshot of breaker counters.
type CircuitBreakerStats struct {
	State               State
	ConsecutiveFailures int
	TotalFailures       int64
	TotalSuccesses      int64
	TotalRejections     int64
	OpenedAt            time.Time
}

func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentStateLocked() {
	case StateOpen:
		cb.totalRejections++
		return ErrCircuitOpen
	case StateHalfOpen:
		if cb.probeInFlight {
			// Only one probe at a time; everyone else keeps fast-failing.
			cb.totalRejections++
			return ErrCircuitOpen
		}
		cb.probeInFlight = true
	}

	return nil
}

// outcome classifies a call result for breaker accounting.
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeFailure
	outcomeNeutral
)

func (cb *CircuitBreaker) classify(err error) outcome {
	if err == nil {
		return outcomeSuccess
	}
	for _, excluded := range cb.config.ExcludeErrors {
		if errors.Is(err, excluded) {
			return outcomeNeutral
		}
	}
	if cb.config.IsFailure(err) {
		return outcomeFailure
	}
	return outcomeSuccess
}

func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	result := cb.classify(err)
	oldState := cb.state

	if result == outcomeNeutral {
		// Says nothing about the target; leave the run and state alone.
		if cb.state == StateHalfOpen {
			cb.probeInFlight = false
		}
		return
	}

	switch cb.state {
	case StateClosed:
		if result == outcomeFailure {
			cb.totalFailures++
			cb.consecutiveFailures++
			if cb.consecutiveFailures >= cb.config.FailureThreshold {
				cb.state = StateOpen
				cb.openedAt = time.Now()
			}
		} else {
			cb.totalSuccesses++
			cb.consecutiveFailures = 0
		}

	case StateHalfOpen:
		cb.probeInFlight = false
		if result == outcomeFailure {
			// Probe failed; reopen and restart the cooldown.
			cb.totalFailures++
			cb.state = StateOpen
			cb.openedAt = time.Now()
		} else {
			cb.totalSuccesses++
			cb.consecutiveFailures = 0
			cb.state = StateClosed
		}
	}

	if oldState != cb.state && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, cb.state)
	}
}

func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.config.Cooldown {
		cb.state = StateHalfOpen
		cb.probeInFlight = false
		if cb.config.OnStateChange != nil {
			cb.config.OnStateChange(StateOpen, StateHalfOpen)
		}
	}
	return cb.state
}
