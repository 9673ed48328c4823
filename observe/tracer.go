package observe

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// DeviceMeta identifies one projector command exchange for telemetry.
type DeviceMeta struct {
	Target  string // host:port of the projector (required)
	Name    string // configured device name (optional)
	Command string // 4-character command code, e.g. "POWR" (required)
	Class   int    // PJLink class of the command (optional)
}

// SpanName returns the deterministic span name for this exchange.
// Format: pjlink.exec.<command>
func (m DeviceMeta) SpanName() string {
	return "pjlink.exec." + m.Command
}

// Tracer wraps OpenTelemetry tracing with command-scoped span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan must honor cancellation/deadlines and return ctx.Err() when canceled.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a command exchange.
	StartSpan(ctx context.Context, meta DeviceMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with device metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta DeviceMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("pjlink.target", meta.Target),
		attribute.String("pjlink.command", meta.Command),
		attribute.Bool("pjlink.error", false), // Will be updated in EndSpan if error
	}

	if meta.Name != "" {
		attrs = append(attrs, attribute.String("pjlink.device_name", meta.Name))
	}
	if meta.Class != 0 {
		attrs = append(attrs, attribute.String("pjlink.class", strconv.Itoa(meta.Class)))
	}

	ctx, span := t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("pjlink.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// NewNoopTracer creates a no-op tracer.
func NewNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta DeviceMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
