package kernel

// TaskStatus is a point-in-time view of one task.
type TaskStatus struct {
	ID       TaskID
	Priority int
	State    State
	Steps    uint64
}

// Snapshot is a diagnostics view of the Manager. Like every other method
// it must be taken on the scheduler goroutine (or before Start).
type Snapshot struct {
	Started  bool
	Capacity int
	Pass     uint64
	Tasks    []TaskStatus
}

// Snapshot reports registry contents in registration order.
func (m *Manager) Snapshot() Snapshot {
	s := Snapshot{
		Started:  m.started,
		Capacity: m.capacity,
		Pass:     m.pass,
		Tasks:    make([]TaskStatus, 0, len(m.tasks)),
	}
	for _, t := range m.tasks {
		s.Tasks = append(s.Tasks, TaskStatus{
			ID:       t.id,
			Priority: t.priority,
			State:    t.state,
			Steps:    t.steps,
		})
	}
	return s
}
