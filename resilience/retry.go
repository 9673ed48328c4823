package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Strategy defines how delays grow between attempts.
type Strategy int

const (
	// StrategyNone retries immediately with no delay.
	StrategyNone Strategy = iota
	// StrategyFixed waits BaseDelay between every attempt.
	StrategyFixed
	// StrategyExponential doubles the delay each attempt, capped at MaxDelay.
	StrategyExponential
	// StrategyExponentialJitter scales the exponential delay by a random
	// factor in [1, 1+JitterFactor] to avoid synchronized retry storms.
	StrategyExponentialJitter
)

// String returns the string representation of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyFixed:
		return "fixed"
	case StrategyExponential:
		return "exponential"
	case StrategyExponentialJitter:
		return "exponential-jitter"
	default:
		return "unknown"
	}
}

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// Strategy is the delay strategy.
	// Default: StrategyExponential
	Strategy Strategy

	// MaxRetries is the number of retries after the first attempt, so a
	// failing operation runs MaxRetries+1 times in total.
	// Default: 3
	MaxRetries int

	// BaseDelay is the delay for the first retry.
	// Default: 100ms
	BaseDelay time.Duration

	// MaxDelay caps the delay between attempts.
	// Default: 30s
	MaxDelay time.Duration

	// JitterFactor is the maximum fraction added on top of the exponential
	// delay by StrategyExponentialJitter. With JitterFactor 0 the strategy
	// degenerates to pure exponential.
	JitterFactor float64

	// RetryIf decides whether an error should trigger another attempt.
	// Errors marked with Permanent never retry regardless of RetryIf.
	// Default: all non-nil errors trigger retry.
	RetryIf func(err error) bool

	// OnRetry is called before each retry sleep.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry drives repeated attempts of an operation with delays between them.
type Retry struct {
	config RetryConfig
}

// NewRetry creates a new retry controller.
func NewRetry(config RetryConfig) *Retry {
	if config.MaxRetries <= 0 {
		config.MaxRetries = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.JitterFactor < 0 {
		config.JitterFactor = 0
	}
	if config.RetryIf == nil {
		config.RetryIf = func(err error) bool { return err != nil }
	}

	return &Retry{config: config}
}

// Execute runs the operation until it succeeds, a non-retryable error is
// returned, the context is cancelled, or the attempt budget is exhausted.
// It returns the number of attempts made and the last error.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) (int, error) {
	var lastErr error

	maxAttempts := r.config.MaxRetries + 1
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return attempt + 1, nil
		}
		lastErr = err

		if IsPermanent(err) || !r.config.RetryIf(err) {
			return attempt + 1, err
		}
		if attempt+1 >= maxAttempts {
			return attempt + 1, lastErr
		}

		delay := r.CalculateDelay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt+1, err, delay)
		}

		if delay > 0 {
			select {
			case <-ctx.Done():
				return attempt + 1, ctx.Err()
			case <-time.After(delay):
			}
		} else if ctx.Err() != nil {
			return attempt + 1, ctx.Err()
		}
	}

	return maxAttempts, lastErr
}

// CalculateDelay returns the sleep before the retry that follows attempt
// (zero-based). For StrategyExponential the delay for attempt n is
// min(BaseDelay * 2^n, MaxDelay); StrategyExponentialJitter scales that by
// a uniform factor in [1, 1+JitterFactor] and never goes below the
// unjittered value.
func (r *Retry) CalculateDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	var delay time.Duration
	switch r.config.Strategy {
	case StrategyNone:
		return 0

	case StrategyFixed:
		return r.config.BaseDelay

	case StrategyExponential, StrategyExponentialJitter:
		scaled := float64(r.config.BaseDelay) * math.Pow(2, float64(attempt))
		if scaled > float64(r.config.MaxDelay) {
			scaled = float64(r.config.MaxDelay)
		}
		delay = time.Duration(scaled)
	}

	if r.config.Strategy == StrategyExponentialJitter && r.config.JitterFactor > 0 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		factor := 1 + rand.Float64()*r.config.JitterFactor
		jittered := float64(delay) * factor
		if jittered > float64(r.config.MaxDelay) {
			jittered = float64(r.config.MaxDelay)
		}
		delay = time.Duration(jittered)
	}

	return delay
}

// Config returns the retry configuration.
func (r *Retry) Config() RetryConfig {
	return r.config
}
