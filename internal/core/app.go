// Package core assembles the runtime: configuration, logging, the event
// bus, the platform port, the boot images and the kernel, wired together
// for the host binary.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"coros/internal/config"
	"coros/internal/eventbus"
	"coros/internal/services/logging"
	"coros/internal/trace"
	"coros/pkg/boot"
	"coros/pkg/kernel"
	logx "coros/pkg/logx"
	"coros/pkg/ports"
	"coros/pkg/ports/mok"
	"coros/pkg/timer"
)

type App struct {
	cfgPath string
	cfgm    *config.Manager

	logs *logging.Service
	log  *slog.Logger
	lx   *logx.Service

	bus eventbus.Bus
	rec *trace.Recorder

	port   ports.Port
	kern   *kernel.Manager
	ticker *timer.Ticker

	ram    []byte
	rom    []byte
	layout boot.Layout
}

// NewApp loads configuration and constructs every component. Nothing runs
// yet; call Init then Run.
func NewApp(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)

	var cfg *config.Config
	if cfgPath == "" {
		cfg = config.Default()
		cfgm.Commit(cfg)
	} else {
		var err error
		cfg, err = cfgm.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfgm.SetValidator(func(_ context.Context, c *config.Config) error {
		return c.Validate()
	})

	// Logging service mapping
	logSvc, log := logging.New(logging.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logging.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log = log.With(slog.String("comp", "app"))

	lxSvc, lxLog := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
	})
	cfgm.SetLogger(lxLog.With(logx.String("comp", "config")))

	// Port mapping
	tickPeriod, err := config.ParseDurationField("port.tick_period", cfg.Port.TickPeriod)
	if err != nil {
		return nil, err
	}
	port := mok.New(mok.Config{
		HeapSize:   cfg.Port.HeapSize,
		TickPeriod: tickPeriod,
	})

	// Kernel mapping
	idlePause, err := config.ParseDurationField("kernel.idle_pause", cfg.Kernel.IdlePause)
	if err != nil {
		return nil, err
	}
	bus := eventbus.New()
	kern := kernel.New(
		kernel.WithCapacity(cfg.Kernel.Capacity),
		kernel.WithIdlePause(idlePause),
		kernel.WithStepEvents(cfg.Kernel.StepEvents),
		kernel.WithLogger(log.With(slog.String("comp", "kernel"))),
		kernel.WithObserver(func(e kernel.Event) {
			bus.Publish(eventbus.Event{Type: e.Type, Time: e.Time, Data: e})
		}),
	)

	// Trace mapping (optional)
	var rec *trace.Recorder
	if cfg.Trace != nil && cfg.Trace.Enabled {
		retention, err := config.ParseDurationField("trace.retention", cfg.Trace.Retention)
		if err != nil {
			return nil, err
		}
		tlog := lxLog.With(logx.String("comp", "trace"))
		store, err := trace.OpenSQLite(trace.Config{
			Path: cfg.Trace.Path,
		}, tlog)
		if err != nil {
			return nil, fmt.Errorf("open trace store: %w", err)
		}
		rec, err = trace.NewRecorder(trace.Config{
			RatePerSec:    cfg.Trace.RatePerSec,
			PruneSchedule: cfg.Trace.PruneSchedule,
			Retention:     retention,
		}, store, bus, tlog)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	// Boot images
	size := cfg.Boot.ImageSize
	ram := make([]byte, size)
	rom := make([]byte, size)
	if cfg.Boot.ROMPath != "" {
		b, err := os.ReadFile(cfg.Boot.ROMPath)
		if err != nil {
			return nil, fmt.Errorf("read rom image: %w", err)
		}
		if len(b) > size {
			return nil, fmt.Errorf("rom image %q is %d bytes, image_size is %d", cfg.Boot.ROMPath, len(b), size)
		}
		copy(rom, b)
	}

	return &App{
		cfgPath: cfgPath,
		cfgm:    cfgm,
		logs:    logSvc,
		log:     log,
		lx:      lxSvc,
		bus:     bus,
		rec:     rec,
		port:    port,
		kern:    kern,
		ticker:  timer.New(port),
		ram:     ram,
		rom:     rom,
		layout:  cfg.Boot.Layout,
	}, nil
}

func (a *App) Config() *config.Config  { return a.cfgm.Get() }
func (a *App) Kernel() *kernel.Manager { return a.kern }
func (a *App) Ticker() *timer.Ticker   { return a.ticker }
func (a *App) Port() ports.Port        { return a.port }
func (a *App) Bus() eventbus.Bus       { return a.bus }
func (a *App) Logger() *slog.Logger    { return a.log }

// RAM exposes the working image for diagnostics.
func (a *App) RAM() []byte { return a.ram }

// Register adds a task at priority 0. Must be called before Run.
func (a *App) Register(setup kernel.SetupFunc, loop kernel.LoopFunc, stop kernel.StopConditionFunc) (kernel.TaskID, error) {
	return a.kern.AddTask(setup, loop, stop)
}

// RegisterPriority adds a task at an explicit priority. Must be called
// before Run.
func (a *App) RegisterPriority(setup kernel.SetupFunc, loop kernel.LoopFunc, stop kernel.StopConditionFunc, priority int) (kernel.TaskID, error) {
	return a.kern.AddPriorityTask(setup, loop, stop, priority)
}

// Init brings the system up: platform heap and timer, trace recorder, and
// the config watcher. Idempotent setup work only; nothing diverges here.
func (a *App) Init(ctx context.Context) error {
	if err := ports.InitSystem(a.port); err != nil {
		return fmt.Errorf("init system: %w", err)
	}
	a.log.Info("system initialized", slog.String("port", a.port.Name()))

	if a.rec != nil {
		a.rec.Start(ctx)
	}
	if a.cfgPath != "" {
		go a.watchConfig(ctx)
	}
	return nil
}

// Run hands control to the kernel. It never returns: the boot trampoline
// materializes the memory layout, enters the scheduler, and the scheduler
// idles in place once every task has retired.
func (a *App) Run() {
	a.log.Info("booting",
		slog.Int("image_size", len(a.ram)),
		slog.Int("zero_regions", len(a.layout.Zero)),
		slog.Int("copy_regions", len(a.layout.Copy)))
	boot.Boot(a.ram, a.rom, a.layout, a.kern.Start)
}

// watchConfig applies live-tunable settings when the file changes.
// Capacity, port sizing and boot layout are construction-time only.
func (a *App) watchConfig(ctx context.Context) {
	sub := a.cfgm.Subscribe(4)
	defer a.cfgm.Unsubscribe(sub)

	go func() { _ = a.cfgm.Watch(ctx) }()

	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-sub:
			if !ok {
				return
			}
			a.logs.Apply(logging.Config{
				Level:   cfg.Logging.Level,
				Console: cfg.Logging.Console,
				File: logging.FileConfig{
					Enabled: cfg.Logging.File.Enabled,
					Path:    cfg.Logging.File.Path,
				},
			})
			a.lx.Apply(logx.Config{
				Level:   cfg.Logging.Level,
				Console: cfg.Logging.Console,
			})
			a.log.Info("config applied", slog.String("level", cfg.Logging.Level))
		}
	}
}

// Close flushes and stops auxiliary services. The kernel itself has no
// stop; Close is for host-side teardown on process exit.
func (a *App) Close() error {
	var firstErr error
	if a.rec != nil {
		if err := a.rec.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := a.logs.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := a.lx.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
