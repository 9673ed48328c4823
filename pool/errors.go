package pool

import "errors"

// Sentinel errors for pool operations.
var (
	// ErrPoolExhausted is returned when no connection became free within
	// the acquire timeout. It reflects local resource pressure, not target
	// device health.
	ErrPoolExhausted = errors.New("pool: exhausted, no connection available")

	// ErrPoolClosed is returned for operations on a closed pool.
	ErrPoolClosed = errors.New("pool: closed")

	// ErrConnNotBorrowed is returned when releasing or discarding a
	// connection that the pool did not lend out. It indicates a caller bug.
	ErrConnNotBorrowed = errors.New("pool: connection is not borrowed")
)
