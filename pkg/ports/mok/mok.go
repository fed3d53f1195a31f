// Package mok is the host port: a simulated platform used for development,
// tests and the demo binary. Its hardware timer is derived from the
// monotonic clock and its heap is a fixed bump arena.
package mok

import (
	"time"

	"coros/pkg/ports"
)

// Config sizes the simulated platform.
type Config struct {
	// HeapSize is the arena size in bytes. Default 64 KiB.
	HeapSize int
	// TickPeriod is the simulated hardware tick. Default 1ms.
	TickPeriod time.Duration
}

const (
	defaultHeapSize   = 64 * 1024
	defaultTickPeriod = time.Millisecond
)

// Mok implements ports.Port on the host.
type Mok struct {
	heapSize   int
	tickPeriod time.Duration

	arena *Arena
	epoch time.Time
	armed bool
}

func New(cfg Config) *Mok {
	if cfg.HeapSize <= 0 {
		cfg.HeapSize = defaultHeapSize
	}
	if cfg.TickPeriod <= 0 {
		cfg.TickPeriod = defaultTickPeriod
	}
	return &Mok{heapSize: cfg.HeapSize, tickPeriod: cfg.TickPeriod}
}

func (p *Mok) Name() string { return "mok" }

func (p *Mok) InitHeap() error {
	p.arena = NewArena(p.heapSize)
	return nil
}

// Arena exposes the platform allocator. Nil before InitHeap.
func (p *Mok) Arena() *Arena { return p.arena }

func (p *Mok) SetupHardwareTimer() {
	if p.armed {
		return
	}
	p.epoch = time.Now()
	p.armed = true
}

func (p *Mok) TickCounter() ports.Tick {
	if !p.armed {
		return 0
	}
	return ports.Tick(time.Since(p.epoch) / p.tickPeriod)
}

func (p *Mok) ReleaseHardwareTimer() {
	p.armed = false
}

var _ ports.Port = (*Mok)(nil)
