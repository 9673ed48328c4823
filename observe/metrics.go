package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records command exchange metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCommand records a command exchange with its duration, attempt
	// count and error status.
	RecordCommand(ctx context.Context, meta DeviceMeta, duration time.Duration, attempts int, err error)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	retryCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"pjlink.command.total",
		metric.WithDescription("Total number of command exchanges"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"pjlink.command.errors",
		metric.WithDescription("Total number of failed command exchanges"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"pjlink.command.retries",
		metric.WithDescription("Total number of retried command attempts"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"pjlink.command.duration_ms",
		metric.WithDescription("Command exchange duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		errorCount:   errorCount,
		retryCount:   retryCount,
		durationHist: durationHist,
	}, nil
}

// RecordCommand records metrics for one command exchange.
func (m *metricsImpl) RecordCommand(ctx context.Context, meta DeviceMeta, duration time.Duration, attempts int, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("pjlink.target", meta.Target),
		attribute.String("pjlink.command", meta.Command),
	}
	if meta.Name != "" {
		attrs = append(attrs, attribute.String("pjlink.device_name", meta.Name))
	}

	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)

	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}

	// Every attempt past the first was a retry.
	if attempts > 1 {
		m.retryCount.Add(ctx, int64(attempts-1), opt)
	}

	durationMs := float64(duration.Milliseconds())
	m.durationHist.Record(ctx, durationMs, opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

// NewNoopMetrics creates a no-op Metrics.
func NewNoopMetrics() Metrics { return &noopMetrics{} }

func (m *noopMetrics) RecordCommand(ctx context.Context, meta DeviceMeta, duration time.Duration, attempts int, err error) {
}
