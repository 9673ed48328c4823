package client

import "time"

// Result is the uniform outcome of every controller operation. Operations
// never return raw errors for expected failures; the caller inspects
// Success and Error instead.
type Result struct {
	// Success is true when the device acknowledged the command or answered
	// the query.
	Success bool

	// Attempts is how many wire attempts were made. Zero means the
	// operation was rejected before reaching the wire (open circuit, rate
	// limit, invalid command) or was served from the status cache.
	Attempts int

	// Error describes the failure. Empty on success.
	Error string

	// Value is the response payload: the answer for queries ("1" for POWR,
	// the input list for INST, ...), "OK" for acknowledged set commands.
	// Empty on failure.
	Value string

	// Cached is true when Value was served from the status cache without
	// touching the device.
	Cached bool

	// Elapsed is the wall time the operation took, including retries and
	// backoff sleeps.
	Elapsed time.Duration
}

func success(attempts int, value string, cached bool, elapsed time.Duration) Result {
	return Result{
		Success:  true,
		Attempts: attempts,
		Value:    value,
		Cached:   cached,
		Elapsed:  elapsed,
	}
}

func failure(attempts int, err error, elapsed time.Duration) Result {
	return Result{
		Attempts: attempts,
		Error:    err.Error(),
		Elapsed:  elapsed,
	}
}
