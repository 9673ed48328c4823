package resilience_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/pjlink/resilience"
)

func ExampleNewCircuitBreaker() {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 3,
		Cooldown:         time.Second,
	})

	ctx := context.Background()
	err := cb.Execute(ctx, func(ctx context.Context) error {
		// Simulated successful command
		return nil
	})

	if err == nil {
		fmt.Println("command succeeded")
	}
	// Output:
	// command succeeded
}

func ExampleCircuitBreaker_State() {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 2,
		Cooldown:         time.Minute,
	})

	ctx := context.Background()
	fmt.Println("initial:", cb.State())

	unreachable := errors.New("dial tcp: connection refused")
	for i := 0; i < 2; i++ {
		_ = cb.Execute(ctx, func(ctx context.Context) error {
			return unreachable
		})
	}
	fmt.Println("after failures:", cb.State())

	cb.Reset()
	fmt.Println("after reset:", cb.State())
	// Output:
	// initial: closed
	// after failures: open
	// after reset: closed
}

func ExampleRetry_CalculateDelay() {
	r := resilience.NewRetry(resilience.RetryConfig{
		Strategy:  resilience.StrategyExponential,
		BaseDelay: time.Second,
		MaxDelay:  10 * time.Second,
	})

	for attempt := 0; attempt < 5; attempt++ {
		fmt.Println(r.CalculateDelay(attempt))
	}
	// Output:
	// 1s
	// 2s
	// 4s
	// 8s
	// 10s
}

func ExampleNewExecutor() {
	exec := resilience.NewExecutor(
		resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			FailureThreshold: 3,
			Cooldown:         30 * time.Second,
		})),
		resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
			Strategy:   resilience.StrategyExponentialJitter,
			MaxRetries: 2,
			BaseDelay:  time.Millisecond,
			MaxDelay:   10 * time.Millisecond,
		})),
	)

	attempts, err := exec.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	fmt.Println(attempts, err)
	// Output:
	// 1 <nil>
}
