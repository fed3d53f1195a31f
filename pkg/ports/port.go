// Package ports defines the platform abstraction the kernel and timer are
// built against. A port supplies the hardware-facing primitives (heap,
// hardware timer); everything above it is platform independent.
package ports

import (
	"errors"
	"fmt"
)

// Tick is a hardware timer counter value.
type Tick int64

// Port is implemented once per target platform.
type Port interface {
	// Name identifies the platform ("mok", ...).
	Name() string
	// InitHeap prepares the platform allocator. Called exactly once,
	// before any allocation.
	InitHeap() error
	// SetupHardwareTimer arms the platform tick source. Safe to call
	// again after ReleaseHardwareTimer.
	SetupHardwareTimer()
	// TickCounter returns the current hardware tick count.
	TickCounter() Tick
	// ReleaseHardwareTimer disarms the tick source.
	ReleaseHardwareTimer()
}

// InitSystem performs platform bring-up: heap first, then the hardware
// timer. It must complete before task registration begins; the layers
// above treat it as an opaque precondition.
func InitSystem(p Port) error {
	if p == nil {
		return errors.New("nil port")
	}
	if err := p.InitHeap(); err != nil {
		return fmt.Errorf("init heap: %w", err)
	}
	p.SetupHardwareTimer()
	return nil
}
