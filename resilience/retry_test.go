package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRetry_Defaults(t *testing.T) {
	r := NewRetry(RetryConfig{})

	if r.config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", r.config.MaxRetries)
	}
	if r.config.BaseDelay != 100*time.Millisecond {
		t.Errorf("BaseDelay = %v, want 100ms", r.config.BaseDelay)
	}
	if r.config.MaxDelay != 30*time.Second {
		t.Errorf("MaxDelay = %v, want 30s", r.config.MaxDelay)
	}
}

func TestRetry_SucceedsFirstAttempt(t *testing.T) {
	r := NewRetry(RetryConfig{Strategy: StrategyNone, MaxRetries: 3})

	attempts, err := r.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_ExhaustsBudget(t *testing.T) {
	r := NewRetry(RetryConfig{Strategy: StrategyNone, MaxRetries: 3})

	boom := errors.New("boom")
	attempts, err := r.Execute(context.Background(), func(ctx context.Context) error {
		return boom
	})
	if err != boom {
		t.Errorf("Execute() error = %v, want %v", err, boom)
	}
	// MaxRetries+1 total attempts.
	if attempts != 4 {
		t.Errorf("attempts = %d, want 4", attempts)
	}
}

func TestRetry_SucceedsMidway(t *testing.T) {
	r := NewRetry(RetryConfig{Strategy: StrategyNone, MaxRetries: 5})

	calls := 0
	attempts, err := r.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetry_PermanentErrorStopsImmediately(t *testing.T) {
	r := NewRetry(RetryConfig{Strategy: StrategyNone, MaxRetries: 5})

	bug := Permanent(errors.New("malformed command"))
	attempts, err := r.Execute(context.Background(), func(ctx context.Context) error {
		return bug
	})
	if !IsPermanent(err) {
		t.Errorf("Execute() error = %v, want permanent", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry of caller bugs)", attempts)
	}
}

func TestRetry_RetryIfClassifier(t *testing.T) {
	noRetry := errors.New("auth failure")
	r := NewRetry(RetryConfig{
		Strategy:   StrategyNone,
		MaxRetries: 5,
		RetryIf: func(err error) bool {
			return !errors.Is(err, noRetry)
		},
	})

	attempts, err := r.Execute(context.Background(), func(ctx context.Context) error {
		return noRetry
	})
	if err != noRetry {
		t.Errorf("Execute() error = %v, want %v", err, noRetry)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_ContextCancelledDuringSleep(t *testing.T) {
	r := NewRetry(RetryConfig{
		Strategy:   StrategyFixed,
		MaxRetries: 5,
		BaseDelay:  time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := r.Execute(ctx, func(ctx context.Context) error {
		return errors.New("boom")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Execute() blocked %v after cancellation", elapsed)
	}
}

func TestRetry_OnRetryCallback(t *testing.T) {
	var retried []int
	r := NewRetry(RetryConfig{
		Strategy:   StrategyNone,
		MaxRetries: 2,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			retried = append(retried, attempt)
		},
	})

	_, _ = r.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("boom")
	})

	if len(retried) != 2 {
		t.Fatalf("OnRetry fired %d times, want 2", len(retried))
	}
	if retried[0] != 1 || retried[1] != 2 {
		t.Errorf("OnRetry attempts = %v, want [1 2]", retried)
	}
}

func TestCalculateDelay_None(t *testing.T) {
	r := NewRetry(RetryConfig{Strategy: StrategyNone, BaseDelay: time.Second})
	for attempt := 0; attempt < 5; attempt++ {
		if d := r.CalculateDelay(attempt); d != 0 {
			t.Errorf("CalculateDelay(%d) = %v, want 0", attempt, d)
		}
	}
}

func TestCalculateDelay_Fixed(t *testing.T) {
	r := NewRetry(RetryConfig{Strategy: StrategyFixed, BaseDelay: 250 * time.Millisecond})
	for attempt := 0; attempt < 5; attempt++ {
		if d := r.CalculateDelay(attempt); d != 250*time.Millisecond {
			t.Errorf("CalculateDelay(%d) = %v, want 250ms", attempt, d)
		}
	}
}

func TestCalculateDelay_Exponential(t *testing.T) {
	r := NewRetry(RetryConfig{
		Strategy:  StrategyExponential,
		BaseDelay: time.Second,
		MaxDelay:  time.Minute,
	})

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
	}
	for _, tt := range tests {
		if d := r.CalculateDelay(tt.attempt); d != tt.want {
			t.Errorf("CalculateDelay(%d) = %v, want %v", tt.attempt, d, tt.want)
		}
	}
}

func TestCalculateDelay_ExponentialCapped(t *testing.T) {
	r := NewRetry(RetryConfig{
		Strategy:  StrategyExponential,
		BaseDelay: time.Second,
		MaxDelay:  5 * time.Second,
	})

	for attempt := 3; attempt < 40; attempt++ {
		if d := r.CalculateDelay(attempt); d != 5*time.Second {
			t.Errorf("CalculateDelay(%d) = %v, want capped 5s", attempt, d)
		}
	}
}

func TestCalculateDelay_JitterBounds(t *testing.T) {
	r := NewRetry(RetryConfig{
		Strategy:     StrategyExponentialJitter,
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     time.Minute,
		JitterFactor: 0.5,
	})

	base := 400 * time.Millisecond // attempt 2
	upper := time.Duration(float64(base) * 1.5)
	for i := 0; i < 200; i++ {
		d := r.CalculateDelay(2)
		if d < base {
			t.Fatalf("CalculateDelay(2) = %v, below unjittered %v", d, base)
		}
		if d > upper {
			t.Fatalf("CalculateDelay(2) = %v, above bound %v", d, upper)
		}
	}
}

func TestCalculateDelay_ZeroJitterDegeneratesToExponential(t *testing.T) {
	jittered := NewRetry(RetryConfig{
		Strategy:     StrategyExponentialJitter,
		BaseDelay:    time.Second,
		MaxDelay:     time.Minute,
		JitterFactor: 0,
	})
	pure := NewRetry(RetryConfig{
		Strategy:  StrategyExponential,
		BaseDelay: time.Second,
		MaxDelay:  time.Minute,
	})

	for attempt := 0; attempt < 8; attempt++ {
		if jittered.CalculateDelay(attempt) != pure.CalculateDelay(attempt) {
			t.Errorf("attempt %d: jitter_factor=0 does not match pure exponential", attempt)
		}
	}
}
