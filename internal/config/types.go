package config

import (
	"fmt"
	"strings"

	"coros/pkg/boot"
	"coros/pkg/kernel"
)

type Config struct {
	Logging LoggingConfig `json:"logging"`
	Kernel  KernelConfig  `json:"kernel"`
	Port    PortConfig    `json:"port"`
	Boot    BootConfig    `json:"boot"`

	// Trace controls the host-side run-history recorder. If the whole
	// section is omitted, tracing is disabled.
	Trace *TraceConfig `json:"trace,omitempty"`
}

type LoggingConfig struct {
	Level   string            `json:"level"`
	Console bool              `json:"console"`
	File    LoggingFileConfig `json:"file"`
}

type LoggingFileConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// KernelConfig sizes the task manager. Capacity and step_events are
// applied at construction only; idle_pause is a Go duration string.
type KernelConfig struct {
	Capacity   int    `json:"capacity,omitempty"`
	IdlePause  string `json:"idle_pause,omitempty"`
	StepEvents bool   `json:"step_events,omitempty"`
}

// PortConfig selects and sizes the platform port.
//
// All durations are Go duration strings (e.g. "500us", "1ms").
type PortConfig struct {
	Name       string `json:"name,omitempty"` // only "mok" on hosts
	HeapSize   int    `json:"heap_size,omitempty"`
	TickPeriod string `json:"tick_period,omitempty"`
}

// BootConfig describes the memory images and the layout the trampoline
// materializes before the entry point runs. Region offsets are trusted
// inputs resolved by whoever produced the image.
type BootConfig struct {
	ImageSize int         `json:"image_size,omitempty"`
	ROMPath   string      `json:"rom_path,omitempty"`
	Layout    boot.Layout `json:"layout"`
}

// TraceConfig controls the run-history recorder.
//
// PruneSchedule accepts a cron expression or a "@every <duration>"
// descriptor; Retention is a Go duration string.
type TraceConfig struct {
	Enabled       bool   `json:"enabled"`
	Path          string `json:"path,omitempty"`
	RatePerSec    int    `json:"rate_per_sec,omitempty"`
	PruneSchedule string `json:"prune_schedule,omitempty"`
	Retention     string `json:"retention,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info", Console: true},
		Kernel:  KernelConfig{Capacity: kernel.DefaultCapacity, IdlePause: "1ms"},
		Port:    PortConfig{Name: "mok"},
		Boot:    BootConfig{ImageSize: 4096},
	}
}

// Validate rejects configs the services cannot start from. It is also
// installed as the Watch validator so bad edits never get published.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if c.Kernel.Capacity < 0 {
		return fmt.Errorf("kernel.capacity must be >= 0")
	}
	if _, err := ParseDurationField("kernel.idle_pause", c.Kernel.IdlePause); err != nil {
		return err
	}
	if name := strings.TrimSpace(c.Port.Name); name != "" && name != "mok" {
		return fmt.Errorf("port.name: unknown port %q", name)
	}
	if c.Port.HeapSize < 0 {
		return fmt.Errorf("port.heap_size must be >= 0")
	}
	if _, err := ParseDurationField("port.tick_period", c.Port.TickPeriod); err != nil {
		return err
	}
	if c.Boot.ImageSize < 0 {
		return fmt.Errorf("boot.image_size must be >= 0")
	}
	for i, r := range c.Boot.Layout.Zero {
		if r.End < r.Start || int(r.End) > c.Boot.ImageSize {
			return fmt.Errorf("boot.layout.zero[%d]: bad range [%d,%d)", i, r.Start, r.End)
		}
	}
	for i, r := range c.Boot.Layout.Copy {
		if r.End < r.Start || int(r.End) > c.Boot.ImageSize {
			return fmt.Errorf("boot.layout.copy[%d]: bad range [%d,%d)", i, r.Start, r.End)
		}
		if int(r.Src+r.Len()) > c.Boot.ImageSize {
			return fmt.Errorf("boot.layout.copy[%d]: source [%d,%d) exceeds image", i, r.Src, r.Src+r.Len())
		}
	}
	if c.Trace != nil {
		if _, err := ParseDurationField("trace.retention", c.Trace.Retention); err != nil {
			return err
		}
		if c.Trace.RatePerSec < 0 {
			return fmt.Errorf("trace.rate_per_sec must be >= 0")
		}
	}
	return nil
}
