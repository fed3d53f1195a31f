package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"coros/pkg/kernel"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestNewAppDefaults(t *testing.T) {
	t.Parallel()
	app, err := NewApp("")
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	if app.Kernel() == nil || app.Port() == nil || app.Ticker() == nil {
		t.Fatal("components not constructed")
	}
	if app.Port().Name() != "mok" {
		t.Errorf("port = %s", app.Port().Name())
	}
	if got := app.Config().Kernel.Capacity; got != kernel.DefaultCapacity {
		t.Errorf("capacity = %d", got)
	}
}

func TestNewAppRejectsBadConfig(t *testing.T) {
	t.Parallel()
	p := writeConfig(t, "kernel:\n  capacity: -5\n")
	if _, err := NewApp(p); err == nil {
		t.Fatal("invalid config accepted")
	}
}

func TestAppRunsRegisteredTasks(t *testing.T) {
	t.Parallel()
	p := writeConfig(t, `
logging:
  level: error
  console: false
kernel:
  capacity: 4
boot:
  image_size: 64
  layout:
    zero:
      - {start: 0, end: 64}
`)
	app, err := NewApp(p)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	defer app.Close()

	if err := app.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	n := 0
	if _, err := app.Register(func() {}, func() { n++ }, func() bool { return n >= 10 }); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := app.Register(app.Ticker().Task()); err != nil {
		t.Fatalf("Register ticker: %v", err)
	}

	// Drive passes directly instead of the diverging Run.
	app.Kernel().RunPasses(20)

	if n != 10 {
		t.Errorf("counter = %d, want 10", n)
	}
	if app.Ticker().Ticks() != 20 {
		t.Errorf("ticks = %d, want 20", app.Ticker().Ticks())
	}

	snap := app.Kernel().Snapshot()
	if len(snap.Tasks) != 2 {
		t.Fatalf("tasks = %d", len(snap.Tasks))
	}
	if snap.Tasks[0].State != kernel.StateRetired {
		t.Errorf("counter state = %s, want retired", snap.Tasks[0].State)
	}
	if snap.Tasks[1].State != kernel.StateActive {
		t.Errorf("ticker state = %s, want active", snap.Tasks[1].State)
	}
}

func TestAppTraceRecorder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	p := writeConfig(t, `
logging:
  level: error
  console: false
kernel:
  capacity: 4
trace:
  enabled: true
  path: `+filepath.Join(dir, "trace.db")+`
  rate_per_sec: 100
`)
	app, err := NewApp(p)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}

	if err := app.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	done := false
	if _, err := app.Register(func() {}, func() { done = true }, func() bool { return done }); err != nil {
		t.Fatal(err)
	}
	app.Kernel().RunPasses(2)

	if err := app.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "trace.db")); err != nil {
		t.Errorf("trace db not created: %v", err)
	}
}

func TestAppRejectsOversizedROM(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	rom := filepath.Join(dir, "image.bin")
	if err := os.WriteFile(rom, make([]byte, 128), 0o600); err != nil {
		t.Fatal(err)
	}
	p := writeConfig(t, `
boot:
  image_size: 64
  rom_path: `+rom+`
`)
	if _, err := NewApp(p); err == nil {
		t.Fatal("oversized rom accepted")
	}
}
