package exporters

import (
	"context"
	"testing"
)

func TestNewTracingExporter(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"stdout", "none", ""} {
		exp, err := NewTracingExporter(ctx, name)
		if err != nil {
			t.Errorf("NewTracingExporter(%q) error = %v", name, err)
			continue
		}
		if exp == nil {
			t.Errorf("NewTracingExporter(%q) = nil", name)
		}
	}

	if _, err := NewTracingExporter(ctx, "carrier-pigeon"); err == nil {
		t.Error("NewTracingExporter(unknown) error = nil, want error")
	}

	// OTLP without an endpoint is a configuration error.
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	if _, err := NewTracingExporter(ctx, "otlp"); err == nil {
		t.Error("NewTracingExporter(otlp, no endpoint) error = nil, want error")
	}
}

func TestNewMetricsReader(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"stdout", "prometheus", "none", ""} {
		reader, err := NewMetricsReader(ctx, name)
		if err != nil {
			t.Errorf("NewMetricsReader(%q) error = %v", name, err)
			continue
		}
		if reader == nil {
			t.Errorf("NewMetricsReader(%q) = nil", name)
		}
	}

	if _, err := NewMetricsReader(ctx, "statsd"); err == nil {
		t.Error("NewMetricsReader(unknown) error = nil, want error")
	}

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")
	if _, err := NewMetricsReader(ctx, "otlp"); err == nil {
		t.Error("NewMetricsReader(otlp, no endpoint) error = nil, want error")
	}
}
