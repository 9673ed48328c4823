package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a call
	// without attempting the underlying operation.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrRateLimitExceeded is returned when a command is issued faster than
	// the configured rate and waiting is disabled or timed out.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrTimeout is returned when a single attempt exceeds its time budget.
	ErrTimeout = errors.New("resilience: operation timed out")
)

// Permanent marks an error as non-retryable. Retry stops immediately when an
// attempt returns an error wrapped with Permanent, regardless of remaining
// budget. Use it for failures that are caller bugs or protocol violations
// rather than transient conditions.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}
