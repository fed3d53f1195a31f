// Package timer provides a tick-counter facility packaged as kernel task
// behaviors: register Task()'s three functions and the counter advances
// once per scheduling pass, next to the platform's hardware tick count.
package timer

import (
	"coros/pkg/kernel"
	"coros/pkg/ports"
)

// Ticker counts scheduling passes and exposes the platform tick counter.
// All state is owned by the Ticker (and captured by the task closures);
// nothing here is global.
type Ticker struct {
	port  ports.Port
	ticks ports.Tick
}

// New returns a Ticker bound to a platform port.
func New(p ports.Port) *Ticker {
	return &Ticker{port: p}
}

// Task returns the behaviors to register with the kernel: setup arms the
// platform timer, loop advances the software tick, and the stop condition
// is perpetual-false (a ticker never retires on its own).
func (t *Ticker) Task() (kernel.SetupFunc, kernel.LoopFunc, kernel.StopConditionFunc) {
	setup := func() {
		if t.port != nil {
			t.port.SetupHardwareTimer()
		}
	}
	loop := func() { t.ticks++ }
	stop := func() bool { return false }
	return setup, loop, stop
}

// Ticks returns the number of loop invocations so far.
func (t *Ticker) Ticks() ports.Tick { return t.ticks }

// HardwareTicks returns the platform tick counter, or 0 without a port.
func (t *Ticker) HardwareTicks() ports.Tick {
	if t.port == nil {
		return 0
	}
	return t.port.TickCounter()
}
