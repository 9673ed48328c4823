// Package observe provides telemetry for projector control: OpenTelemetry
// tracing and metrics, a JSON structured logger with credential redaction,
// and a middleware that wraps command exchanges with all three.
package observe
