package observe_test

import (
	"context"
	"fmt"
	"log"

	"github.com/jonwraymond/pjlink/observe"
)

func ExampleNewObserver() {
	obs, err := observe.NewObserver(context.Background(), observe.Config{
		ServiceName: "projector-control",
		Version:     "1.0.0",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		log.Fatal(err)
	}
	defer obs.Shutdown(context.Background())

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		log.Fatal(err)
	}

	exec := mw.Wrap(func(ctx context.Context, device observe.DeviceMeta) (string, error) {
		return "0", nil // power is off
	})

	value, err := exec(context.Background(), observe.DeviceMeta{
		Target:  "10.0.0.1:4352",
		Command: "POWR",
	})
	fmt.Println(value, err)

	// Output:
	// 0 <nil>
}
