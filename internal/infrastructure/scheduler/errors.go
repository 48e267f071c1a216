package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning means a manual sweep was triggered before
	// Start or after Stop.
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
