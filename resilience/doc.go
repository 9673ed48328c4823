// Package resilience provides the failure-handling layers of the PJLink
// client stack.
//
// Projectors live on unreliable LANs and answer slowly while warming up or
// cooling down. The patterns here keep repeated commands from destabilizing
// the calling application when a device misbehaves.
//
// # Patterns
//
//   - Circuit Breaker: stops hammering a device after a run of consecutive
//     failures and probes it again after a cooldown.
//
//   - Retry: re-attempts failed commands with a configurable delay strategy
//     (none, fixed, exponential, exponential with jitter).
//
//   - Timeout: bounds a single attempt.
//
//   - Rate Limiter: paces command bursts; projectors are slow serial
//     devices and drop lines when flooded.
//
// # Usage
//
// Each pattern can be used independently or composed with an Executor:
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    FailureThreshold: 3,
//	    Cooldown:         30 * time.Second,
//	})
//
//	retry := resilience.NewRetry(resilience.RetryConfig{
//	    Strategy:   resilience.StrategyExponentialJitter,
//	    MaxRetries: 3,
//	    BaseDelay:  250 * time.Millisecond,
//	    MaxDelay:   5 * time.Second,
//	})
//
//	exec := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(cb),
//	    resilience.WithRetry(retry),
//	    resilience.WithTimeout(2*time.Second),
//	)
//
//	attempts, err := exec.Execute(ctx, func(ctx context.Context) error {
//	    return sendCommand(ctx)
//	})
//
// The breaker wraps the whole retry loop, so one logical operation counts as
// at most one breaker failure no matter how many attempts it burned.
package resilience
