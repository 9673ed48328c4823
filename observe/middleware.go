package observe

import (
	"context"
	"time"
)

// ExecuteFunc is the signature for command exchange functions wrapped by
// Middleware: it performs one full exchange and returns the response value.
type ExecuteFunc func(ctx context.Context, device DeviceMeta) (string, error)

// Middleware wraps command exchanges with observability (tracing, metrics,
// logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe ExecuteFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from the wrapped function are recorded and propagated
//     unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability
// components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps an ExecuteFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn ExecuteFunc) ExecuteFunc {
	return func(ctx context.Context, device DeviceMeta) (string, error) {
		ctx, span := m.tracer.StartSpan(ctx, device)

		start := time.Now()
		value, err := fn(ctx, device)
		duration := time.Since(start)

		m.tracer.EndSpan(span, err)
		m.metrics.RecordCommand(ctx, device, duration, 1, err)

		deviceLogger := m.logger.WithDevice(device)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			deviceLogger.Error(ctx, "command exchange failed", fields...)
		} else {
			deviceLogger.Info(ctx, "command exchange completed", fields...)
		}

		return value, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer.
// This is a convenience function for common use cases.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	tracer := NewTracer(obs.Tracer())

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}
