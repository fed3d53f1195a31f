package kernel

import (
	"testing"
)

func TestSetupRunsOnceBeforeFirstLoop(t *testing.T) {
	t.Parallel()
	m := New()

	setups := 0
	steps := 0
	_, err := m.AddTask(
		func() { setups++ },
		func() {
			if setups != 1 {
				t.Errorf("loop ran with setups=%d", setups)
			}
			steps++
		},
		stopNever,
	)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	m.RunPasses(10)
	if setups != 1 {
		t.Fatalf("setups = %d, want 1", setups)
	}
	if steps != 10 {
		t.Fatalf("steps = %d, want 10", steps)
	}
}

func TestAllSetupsRunBeforeAnyLoop(t *testing.T) {
	t.Parallel()
	m := New()

	setups := 0
	for i := 0; i < 3; i++ {
		_, err := m.AddTask(
			func() { setups++ },
			func() {
				if setups != 3 {
					t.Errorf("loop ran with setups=%d, want 3", setups)
				}
			},
			stopNever,
		)
		if err != nil {
			t.Fatalf("AddTask: %v", err)
		}
	}
	m.RunPasses(2)
}

func TestStopConditionBoundsSteps(t *testing.T) {
	t.Parallel()
	m := New()

	// Counter task: stop once it reaches 50. Exactly 50 loop calls must
	// happen, none afterwards.
	counter := 0
	_, err := m.AddTask(
		nopSetup,
		func() { counter++ },
		func() bool { return counter == 50 },
	)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	ran := m.RunPasses(200)
	if counter != 50 {
		t.Fatalf("counter = %d, want 50", counter)
	}
	if ran != 50 {
		t.Fatalf("loop invocations = %d, want 50", ran)
	}
}

func TestRoundRobinOrder(t *testing.T) {
	t.Parallel()
	m := New()

	var order []string
	add := func(name string) {
		if _, err := m.AddTask(nopSetup, func() { order = append(order, name) }, stopNever); err != nil {
			t.Fatalf("AddTask %s: %v", name, err)
		}
	}
	add("a")
	add("b")

	m.RunPasses(3)
	want := []string{"a", "b", "a", "b", "a", "b"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestRetiredTaskSkippedOrderPreserved(t *testing.T) {
	t.Parallel()
	m := New()

	var order []string
	if _, err := m.AddTask(nopSetup, func() { order = append(order, "a") }, stopNever); err != nil {
		t.Fatalf("AddTask a: %v", err)
	}
	// b retires after its first loop call.
	bSteps := 0
	if _, err := m.AddTask(nopSetup, func() { bSteps++; order = append(order, "b") }, func() bool { return bSteps >= 1 }); err != nil {
		t.Fatalf("AddTask b: %v", err)
	}

	m.RunPasses(4)
	want := []string{"a", "b", "a", "a", "a"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestPriorityOrdering(t *testing.T) {
	t.Parallel()
	m := New()

	var order []string
	add := func(name string, prio int) {
		if _, err := m.AddPriorityTask(nopSetup, func() { order = append(order, name) }, stopNever, prio); err != nil {
			t.Fatalf("AddPriorityTask %s: %v", name, err)
		}
	}
	add("low-1", 0)
	add("high", 7)
	add("low-2", 0)

	m.RunPasses(1)
	want := []string{"high", "low-1", "low-2"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestZeroTasksIdles(t *testing.T) {
	t.Parallel()
	m := New()

	if ran := m.RunPasses(1000); ran != 0 {
		t.Fatalf("ran = %d, want 0", ran)
	}
}

func TestObserverEvents(t *testing.T) {
	t.Parallel()

	var events []Event
	m := New(
		WithObserver(func(e Event) { events = append(events, e) }),
		WithStepEvents(true),
	)

	id, err := m.AddTask(nopSetup, nopLoop, stopAlways)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	m.RunPasses(3)

	want := []string{EventTaskRegistered, EventTaskSetup, EventTaskStep, EventTaskRetired, EventKernelIdle}
	if len(events) != len(want) {
		t.Fatalf("events = %d, want %d", len(events), len(want))
	}
	for i, typ := range want {
		if events[i].Type != typ {
			t.Fatalf("events[%d].Type = %s, want %s", i, events[i].Type, typ)
		}
	}
	for _, e := range events[:4] {
		if e.Task != id {
			t.Fatalf("event %s task = %d, want %d", e.Type, e.Task, id)
		}
	}
}

func TestStopCheckedAfterLoopSamePass(t *testing.T) {
	t.Parallel()
	m := New()

	// The stop condition is true from the start; the loop must still run
	// exactly once (stop is never evaluated before that pass's loop).
	steps := 0
	if _, err := m.AddTask(nopSetup, func() { steps++ }, stopAlways); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	m.RunPasses(5)
	if steps != 1 {
		t.Fatalf("steps = %d, want 1", steps)
	}
}
