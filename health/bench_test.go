package health

import (
	"context"
	"fmt"
	"testing"
)

func BenchmarkAggregator_CheckAll(b *testing.B) {
	agg := NewAggregator()
	for i := 0; i < 16; i++ {
		name := fmt.Sprintf("projector-%d", i)
		agg.Register(name, staticChecker(name, Healthy("ok")))
	}

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		agg.CheckAll(ctx)
	}
}

func BenchmarkAggregator_OverallStatus(b *testing.B) {
	agg := NewAggregator()
	results := make(map[string]Result, 16)
	for i := 0; i < 16; i++ {
		results[fmt.Sprintf("projector-%d", i)] = Healthy("ok")
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		agg.OverallStatus(results)
	}
}
