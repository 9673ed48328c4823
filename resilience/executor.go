package resilience

import (
	"context"
	"time"
)

// Executor composes the failure-handling layers for one logical operation:
// rate limiter around circuit breaker around retry around per-attempt
// timeout. Layers that are not configured are skipped.
//
// The breaker wraps the retry loop, not the individual attempts, so one
// logical operation counts as a single breaker outcome.
type Executor struct {
	circuitBreaker *CircuitBreaker
	retry          *Retry
	rateLimiter    *RateLimiter
	timeout        *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates a new resilience executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.circuitBreaker = cb
	}
}

// WithRetry adds retry logic to the executor.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithRateLimiter adds command pacing to the executor.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) {
		e.rateLimiter = rl
	}
}

// WithTimeout adds a per-attempt timeout to the executor.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// CircuitBreaker returns the configured breaker, or nil.
func (e *Executor) CircuitBreaker() *CircuitBreaker {
	return e.circuitBreaker
}

// Retry returns the configured retry controller, or nil.
func (e *Executor) Retry() *Retry {
	return e.retry
}

// Execute runs the operation through all configured layers and returns the
// number of attempts made alongside the final error. A rejection by the
// breaker or rate limiter counts as zero attempts.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) (int, error) {
	attempts := 0

	// Innermost: one attempt, optionally bounded by the attempt timeout.
	attemptOnce := func(ctx context.Context) error {
		attempts++
		if e.timeout != nil {
			return e.timeout.Execute(ctx, op)
		}
		return op(ctx)
	}

	execute := attemptOnce
	if e.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			_, err := e.retry.Execute(ctx, inner)
			return err
		}
	}

	if e.circuitBreaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.circuitBreaker.Execute(ctx, inner)
		}
	}

	if e.rateLimiter != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.rateLimiter.Execute(ctx, inner)
		}
	}

	err := execute(ctx)
	return attempts, err
}
