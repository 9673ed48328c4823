package health

import "errors"

var (
	// ErrCheckFailed marks a projector check that got a definitive bad
	// answer.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout marks a check that outlived the sweep deadline.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound is returned for a name no checker is registered
	// under.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrNoCheckers is returned when a fleet with no registered checkers
	// is asked for a verdict.
	ErrNoCheckers = errors.New("health: no checkers registered")
)
