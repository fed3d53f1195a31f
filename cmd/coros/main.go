package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"

	"coros/internal/core"
	"coros/pkg/kernel"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to config yaml (empty = defaults)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app, err := core.NewApp(cfgPath)
	if err != nil {
		fmt.Println("fatal:", err)
		os.Exit(1)
	}

	if err := app.Init(ctx); err != nil {
		fmt.Println("fatal init:", err)
		os.Exit(1)
	}

	registerDemoTasks(app)

	// The scheduler never returns, so teardown runs off the signal
	// context on its own goroutine.
	go func() {
		<-ctx.Done()
		_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
		_ = app.Close()
		os.Exit(0)
	}()

	_, _ = daemon.SdNotify(false, daemon.SdNotifyReady)
	app.Run()
}

// registerDemoTasks wires the stock workload: a pass counter that retires
// at 50, a perpetual companion, and the tick counter.
func registerDemoTasks(app *core.App) {
	var counter int
	mustRegister(app.Register(
		func() { counter = 1 },
		func() { counter++ },
		func() bool { return counter >= 50 },
	))

	var beats uint64
	mustRegister(app.RegisterPriority(
		func() {},
		func() { beats++ },
		func() bool { return false },
		1,
	))

	mustRegister(app.Register(app.Ticker().Task()))
}

func mustRegister(id kernel.TaskID, err error) {
	if err != nil {
		fmt.Println("fatal: register task:", err)
		os.Exit(1)
	}
	_ = id
}
