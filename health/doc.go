// Package health reports projector and fleet health.
//
// A ProjectorChecker wraps one client.Controller and folds its circuit
// state and a live power query into a three-level verdict: healthy,
// degraded (answering, but with retries or a probing circuit), or
// unhealthy (unreachable or circuit open). An Aggregator sweeps many
// checkers concurrently so a dead projector cannot stall the fleet
// report.
//
// The HTTP handlers expose the usual probe surface:
//
//	mux := http.NewServeMux()
//	agg := health.NewAggregator()
//	agg.Register("auditorium", health.NewProjectorChecker("auditorium", ctrl))
//	health.RegisterHandlers(mux, agg)
//
// GET /healthz is liveness, GET /readyz is readiness, and GET /health
// returns the per-projector JSON report.
package health
