package kernel

import "errors"

var (
	// ErrCapacity is returned when registration would exceed the fixed
	// task storage. Treat it as fatal: the bound is a deployment choice,
	// not a transient condition.
	ErrCapacity = errors.New("task storage exhausted")
	// ErrStarted is returned when registration is attempted after the
	// scheduler has started. This is a programming error in the caller.
	ErrStarted = errors.New("task manager already started")
	// ErrPriority is returned for a priority outside [0, NumPriorities).
	ErrPriority = errors.New("task priority out of range")
	// ErrNotFound is returned when no task has the given id.
	ErrNotFound = errors.New("task not found")
	// ErrState is returned for a lifecycle operation that is invalid in
	// the task's current state (e.g. sleeping a retired task).
	ErrState = errors.New("invalid task state for operation")
)
