package health

import "errors"

var (
	// ErrThresholdExceeded indicates a checked quantity crossed its critical threshold.
	ErrThresholdExceeded = errors.New("health: threshold exceeded")

	// ErrCheckTimeout indicates a check did not finish before the deadline.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound indicates no checker is registered under a name.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrInvalidConfig indicates a checker or aggregator configuration error.
	ErrInvalidConfig = errors.New("health: invalid config")

	// ErrNilSizer indicates an EntriesChecker was created without a target.
	ErrNilSizer = errors.New("health: sizer is nil")

	// ErrNilChecker indicates a nil Checker was registered.
	ErrNilChecker = errors.New("health: checker is nil")
)
