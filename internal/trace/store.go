package trace

import (
	"context"
	"errors"
	"time"
)

var ErrDisabled = errors.New("trace store is disabled")

// Entry is one recorded kernel event.
type Entry struct {
	ID       int64
	At       time.Time
	Event    string
	TaskID   uint64
	Priority int
	Pass     uint64
}

type Store interface {
	Append(ctx context.Context, e Entry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
	// Prune deletes entries older than cutoff and reports how many.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}

type Config struct {
	Path          string
	BusyTimeout   time.Duration
	RatePerSec    int
	PruneSchedule string
	Retention     time.Duration
}
