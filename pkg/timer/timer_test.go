package timer

import (
	"testing"
	"time"

	"coros/pkg/kernel"
	"coros/pkg/ports/mok"
)

func TestTickerAdvancesPerPass(t *testing.T) {
	t.Parallel()
	tk := New(nil)

	m := kernel.New()
	if _, err := m.AddTask(tk.Task()); err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	m.RunPasses(7)
	if got := tk.Ticks(); got != 7 {
		t.Fatalf("Ticks = %d, want 7", got)
	}

	// A ticker never retires on its own.
	m.RunPasses(1)
	if got := tk.Ticks(); got != 8 {
		t.Fatalf("Ticks = %d, want 8", got)
	}
}

func TestTickerSetupArmsPort(t *testing.T) {
	t.Parallel()
	p := mok.New(mok.Config{TickPeriod: time.Millisecond})
	tk := New(p)

	m := kernel.New()
	if _, err := m.AddTask(tk.Task()); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	m.RunPasses(1)

	time.Sleep(3 * time.Millisecond)
	if tk.HardwareTicks() <= 0 {
		t.Fatal("hardware timer not armed by setup")
	}
}

func TestHardwareTicksWithoutPort(t *testing.T) {
	t.Parallel()
	tk := New(nil)
	if got := tk.HardwareTicks(); got != 0 {
		t.Fatalf("HardwareTicks = %d, want 0", got)
	}
}
