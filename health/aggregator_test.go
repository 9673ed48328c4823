package health

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func staticChecker(name string, result Result) Checker {
	return NewCheckerFunc(name, func(ctx context.Context) Result {
		return result
	})
}

func TestAggregator_RegisterUnregister(t *testing.T) {
	agg := NewAggregator()
	agg.Register("a", staticChecker("a", Healthy("ok")))
	agg.Register("b", staticChecker("b", Healthy("ok")))
	agg.Register("a", staticChecker("a", Healthy("replaced")))

	names := agg.CheckerNames()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("CheckerNames() = %v, want [a b]", names)
	}

	agg.Unregister("a")
	names = agg.CheckerNames()
	if len(names) != 1 || names[0] != "b" {
		t.Errorf("CheckerNames() after Unregister = %v, want [b]", names)
	}
}

func TestAggregator_CheckUnknownName(t *testing.T) {
	agg := NewAggregator()
	if _, err := agg.Check(context.Background(), "ghost"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("Check(ghost) error = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	agg := NewAggregator()
	agg.Register("front", staticChecker("front", Healthy("ok")))
	agg.Register("rear", staticChecker("rear", Degraded("retrying")))
	agg.Register("lobby", staticChecker("lobby", Unhealthy("dark", ErrCheckFailed)))

	results := agg.CheckAll(context.Background())
	if len(results) != 3 {
		t.Fatalf("CheckAll() returned %d results, want 3", len(results))
	}

	var names []string
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	want := []string{"front", "lobby", "rear"}
	for i, name := range names {
		if name != want[i] {
			t.Fatalf("result names = %v, want %v", names, want)
		}
	}

	if results["front"].Duration < 0 {
		t.Error("Duration not recorded")
	}
	if results["front"].Timestamp.IsZero() {
		t.Error("Timestamp not recorded")
	}
}

func TestAggregator_OverallStatus(t *testing.T) {
	agg := NewAggregator()

	if got := agg.OverallStatus(nil); got != StatusHealthy {
		t.Errorf("OverallStatus(empty) = %v, want healthy", got)
	}

	results := map[string]Result{
		"a": Healthy("ok"),
		"b": Healthy("ok"),
	}
	if got := agg.OverallStatus(results); got != StatusHealthy {
		t.Errorf("OverallStatus(all healthy) = %v, want healthy", got)
	}

	results["c"] = Degraded("slow")
	if got := agg.OverallStatus(results); got != StatusDegraded {
		t.Errorf("OverallStatus(one degraded) = %v, want degraded", got)
	}

	results["d"] = Unhealthy("down", ErrCheckFailed)
	if got := agg.OverallStatus(results); got != StatusUnhealthy {
		t.Errorf("OverallStatus(one unhealthy) = %v, want unhealthy", got)
	}
}

func TestAggregator_SlowCheckerTimesOut(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 50 * time.Millisecond})
	agg.Register("fast", staticChecker("fast", Healthy("ok")))
	agg.Register("stuck", NewCheckerFunc("stuck", func(ctx context.Context) Result {
		<-ctx.Done()
		time.Sleep(time.Second)
		return Healthy("too late")
	}))

	start := time.Now()
	results := agg.CheckAll(context.Background())
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("CheckAll() took %v, want prompt timeout", elapsed)
	}

	if results["fast"].Status != StatusHealthy {
		t.Errorf("fast checker = %v, want healthy", results["fast"].Status)
	}
	stuck := results["stuck"]
	if stuck.Status != StatusUnhealthy {
		t.Errorf("stuck checker = %v, want unhealthy", stuck.Status)
	}
	if !errors.Is(stuck.Error, ErrCheckTimeout) {
		t.Errorf("stuck checker error = %v, want ErrCheckTimeout", stuck.Error)
	}
}

func TestAggregator_MaxConcurrency(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{
		Timeout:        5 * time.Second,
		MaxConcurrency: 2,
	})

	var inFlight, peak atomic.Int32
	var mu sync.Mutex
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		agg.Register(name, NewCheckerFunc(name, func(ctx context.Context) Result {
			n := inFlight.Add(1)
			mu.Lock()
			if n > peak.Load() {
				peak.Store(n)
			}
			mu.Unlock()
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
			return Healthy("ok")
		}))
	}

	results := agg.CheckAll(context.Background())
	if len(results) != 6 {
		t.Fatalf("CheckAll() returned %d results, want 6", len(results))
	}
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestAggregator_AsCheckerEmptyFleet(t *testing.T) {
	agg := NewAggregator()

	res := agg.Checker().Check(context.Background())
	if res.Status != StatusUnhealthy {
		t.Errorf("Check() on empty fleet = %v, want unhealthy", res.Status)
	}
	if !errors.Is(res.Error, ErrNoCheckers) {
		t.Errorf("Error = %v, want ErrNoCheckers", res.Error)
	}
}

func TestAggregator_AsChecker(t *testing.T) {
	agg := NewAggregator()
	agg.Register("front", staticChecker("front", Healthy("ok")))
	agg.Register("rear", staticChecker("rear", Degraded("retrying")))

	checker := agg.Checker()
	if checker.Name() != "fleet" {
		t.Errorf("Name() = %q, want fleet", checker.Name())
	}

	res := checker.Check(context.Background())
	if res.Status != StatusDegraded {
		t.Errorf("Check() = %v, want degraded", res.Status)
	}
	if len(res.Details) != 2 {
		t.Errorf("Details has %d entries, want 2", len(res.Details))
	}
}
