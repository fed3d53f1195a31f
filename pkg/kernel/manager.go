package kernel

import (
	"errors"
	"log/slog"
	"time"
)

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithCapacity fixes the registry size. Registrations beyond n fail with
// ErrCapacity. n must be > 0; the default is DefaultCapacity.
func WithCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.capacity = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithObserver installs a lifecycle observer. Events are delivered inline
// on the scheduler goroutine; the observer must not block.
func WithObserver(fn Observer) Option {
	return func(m *Manager) { m.observer = fn }
}

// WithIdlePause sets how long the scheduler pauses after a pass in which
// no task ran. Zero (the default) keeps a pure spin.
func WithIdlePause(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.idlePause = d
		}
	}
}

// WithStepEvents enables a task.step event per loop invocation. This is a
// diagnostics firehose; consumers are expected to shed load.
func WithStepEvents(enabled bool) Option {
	return func(m *Manager) { m.stepEvents = enabled }
}

// Manager owns the task registry and the cooperative dispatch loop.
//
// All methods must be called from a single goroutine: registration before
// Start, everything else from task code running under the scheduler.
type Manager struct {
	log        *slog.Logger
	observer   Observer
	idlePause  time.Duration
	stepEvents bool

	capacity int
	tasks    []*task // registration order
	order    []*task // scheduling order, frozen when the scheduler starts

	nextID   TaskID
	started  bool
	pass     uint64
	idleSeen bool
}

// New returns an empty Manager with fixed task storage.
func New(opts ...Option) *Manager {
	m := &Manager{
		log:      slog.Default(),
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	m.tasks = make([]*task, 0, m.capacity)
	return m
}

// AddTask registers a task at priority 0. It fails with ErrStarted after
// the scheduler has started and with ErrCapacity when storage is full;
// both must be treated as fatal by the caller.
func (m *Manager) AddTask(setup SetupFunc, loop LoopFunc, stop StopConditionFunc) (TaskID, error) {
	return m.AddPriorityTask(setup, loop, stop, 0)
}

// AddPriorityTask registers a task at an explicit priority. Higher
// priorities run earlier within a pass; tasks of equal priority keep
// registration order.
func (m *Manager) AddPriorityTask(setup SetupFunc, loop LoopFunc, stop StopConditionFunc, priority int) (TaskID, error) {
	if m.started {
		return 0, ErrStarted
	}
	if priority < 0 || priority >= NumPriorities {
		return 0, ErrPriority
	}
	if setup == nil || loop == nil || stop == nil {
		return 0, errors.New("task behaviors must be non-nil")
	}
	if len(m.tasks) >= m.capacity {
		return 0, ErrCapacity
	}

	m.nextID++
	t := &task{
		behaviors: behaviors{setup: setup, loop: loop, stop: stop},
		id:        m.nextID,
		priority:  priority,
		state:     StateRegistered,
	}
	m.tasks = append(m.tasks, t)
	m.emit(EventTaskRegistered, t)
	m.log.Debug("task registered", slog.Uint64("task", uint64(t.id)), slog.Int("priority", priority))
	return t.id, nil
}

// Start runs the scheduler forever. It never returns: once every task has
// retired it idles in place, because on the targets this models there is
// nothing to return to.
func (m *Manager) Start() {
	m.initialize()
	for {
		if m.runPass() == 0 {
			m.noteIdle()
			if m.idlePause > 0 {
				time.Sleep(m.idlePause)
			}
		}
	}
}

// RunPasses drives the scheduler for exactly n passes and reports how many
// loop invocations ran. It exists for tests and host tooling; production
// embedders call Start.
func (m *Manager) RunPasses(n int) int {
	m.initialize()
	total := 0
	for i := 0; i < n; i++ {
		if ran := m.runPass(); ran > 0 {
			total += ran
		} else {
			m.noteIdle()
		}
	}
	return total
}

// initialize freezes the scheduling order and runs every pending setup,
// in scheduling order, before the first pass.
func (m *Manager) initialize() {
	if m.started {
		return
	}
	m.started = true

	m.order = make([]*task, 0, len(m.tasks))
	for p := NumPriorities - 1; p >= 0; p-- {
		for _, t := range m.tasks {
			if t.priority == p {
				m.order = append(m.order, t)
			}
		}
	}

	for _, t := range m.order {
		if t.state != StateRegistered {
			continue
		}
		t.setup()
		t.state = StateActive
		m.emit(EventTaskSetup, t)
	}
	m.log.Info("scheduler started", slog.Int("tasks", len(m.order)), slog.Int("capacity", m.capacity))
}

// runPass executes one round-robin pass and returns the number of loop
// invocations it performed.
func (m *Manager) runPass() int {
	m.pass++
	ran := 0
	for _, t := range m.order {
		if t.state != StateActive {
			continue
		}
		t.loop()
		t.steps++
		ran++
		if m.stepEvents {
			m.emit(EventTaskStep, t)
		}
		// The stop condition is checked after the same pass's loop call,
		// never before it.
		if t.state == StateActive && t.stop() {
			t.state = StateRetired
			m.emit(EventTaskRetired, t)
			m.log.Info("task retired", slog.Uint64("task", uint64(t.id)), slog.Uint64("steps", t.steps))
		}
	}
	return ran
}

// noteIdle records the transition into the idle state (a pass that ran
// nothing). Emitted once per transition; Sleep/Wake re-arm it.
func (m *Manager) noteIdle() {
	if m.idleSeen {
		return
	}
	m.idleSeen = true
	m.emit(EventKernelIdle, nil)
	m.log.Info("no runnable tasks; idling", slog.Uint64("pass", m.pass))
}

// Sleep parks an active task: it keeps its slot but is skipped on every
// pass until Wake. Callable only from task code.
func (m *Manager) Sleep(id TaskID) error {
	t := m.find(id)
	if t == nil {
		return ErrNotFound
	}
	if t.state != StateActive {
		return ErrState
	}
	t.state = StateSleeping
	m.idleSeen = false
	return nil
}

// Wake returns a sleeping task to the active set. Callable only from task
// code.
func (m *Manager) Wake(id TaskID) error {
	t := m.find(id)
	if t == nil {
		return ErrNotFound
	}
	if t.state != StateSleeping {
		return ErrState
	}
	t.state = StateActive
	m.idleSeen = false
	return nil
}

// Remove retires a task explicitly. The slot is excluded from scheduling
// but not reused; retirement is not deallocation.
func (m *Manager) Remove(id TaskID) error {
	t := m.find(id)
	if t == nil {
		return ErrNotFound
	}
	if t.state == StateRetired {
		return ErrState
	}
	t.state = StateRetired
	m.emit(EventTaskRetired, t)
	return nil
}

func (m *Manager) find(id TaskID) *task {
	for _, t := range m.tasks {
		if t.id == id {
			return t
		}
	}
	return nil
}

func (m *Manager) emit(typ string, t *task) {
	if m.observer == nil {
		return
	}
	e := Event{Type: typ, Pass: m.pass, Time: time.Now()}
	if t != nil {
		e.Task = t.id
		e.Priority = t.priority
	}
	m.observer(e)
}
