package kernel

import (
	"fmt"
	"time"
)

// SetupFunc runs exactly once per task, strictly after registration and
// strictly before the task's first loop invocation.
type SetupFunc func()

// LoopFunc is the repeatable unit of work. It must run to completion
// quickly; returning is the only way a task yields.
type LoopFunc func()

// StopConditionFunc is evaluated once per pass, after that pass's loop
// call. Returning true retires the task permanently.
type StopConditionFunc func() bool

// TaskID identifies a registered task. IDs start at 1 and are never
// reused within a Manager.
type TaskID uint64

// State is the lifecycle state of a task.
type State int

const (
	// StateRegistered means the task is in the registry but its setup
	// has not run yet.
	StateRegistered State = iota
	// StateActive means setup has completed and the loop runs each pass.
	StateActive
	// StateSleeping means the task is parked: it keeps its slot and
	// registration order but is skipped until woken.
	StateSleeping
	// StateRetired means the stop condition fired (or the task was
	// removed); the loop never runs again. The slot is not reused.
	StateRetired
)

func (s State) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateActive:
		return "active"
	case StateSleeping:
		return "sleeping"
	case StateRetired:
		return "retired"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// NumPriorities is the number of scheduling priority levels. Valid
// priorities are 0 (lowest, the default) through NumPriorities-1.
const NumPriorities = 11

// DefaultCapacity is the registry size used when WithCapacity is not
// given. Task storage is fixed at construction: the registry never grows,
// so the bound on concurrent tasks is explicit and known up front.
const DefaultCapacity = 32

// Event is a kernel lifecycle notification delivered inline on the
// scheduler goroutine. Observers must not block.
type Event struct {
	Type     string
	Task     TaskID
	Priority int
	Pass     uint64
	Time     time.Time
}

// Event types passed to an Observer.
const (
	EventTaskRegistered = "task.registered"
	EventTaskSetup      = "task.setup"
	EventTaskStep       = "task.step" // only with WithStepEvents(true)
	EventTaskRetired    = "task.retired"
	EventKernelIdle     = "kernel.idle"
)

// Observer receives kernel lifecycle events.
type Observer func(Event)

type behaviors struct {
	setup SetupFunc
	loop  LoopFunc
	stop  StopConditionFunc
}

type task struct {
	behaviors

	id       TaskID
	priority int
	state    State
	steps    uint64
}
