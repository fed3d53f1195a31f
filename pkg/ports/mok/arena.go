package mok

import (
	"errors"
	"sync/atomic"
)

// ErrOutOfMemory is returned when an allocation does not fit in the arena.
// The arena never grows; running out is fatal for the embedder.
var ErrOutOfMemory = errors.New("arena exhausted")

// Arena is a bump allocator over a fixed byte buffer. Allocations are
// aligned, never reclaimed individually, and handed out lock-free so task
// code and host tooling can allocate without coordination.
type Arena struct {
	buf  []byte
	next atomic.Int64
}

// NewArena returns an arena over a fresh buffer of size bytes.
func NewArena(size int) *Arena {
	return &Arena{buf: make([]byte, size)}
}

// Alloc carves size bytes aligned to align (a power of two; 0 or 1 means
// unaligned) out of the arena.
func (a *Arena) Alloc(size, align int) ([]byte, error) {
	if size < 0 {
		return nil, errors.New("negative allocation size")
	}
	if align <= 0 {
		align = 1
	}
	if align&(align-1) != 0 {
		return nil, errors.New("alignment must be a power of two")
	}

	for {
		cur := a.next.Load()
		aligned := (cur + int64(align) - 1) &^ (int64(align) - 1)
		end := aligned + int64(size)
		if end > int64(len(a.buf)) {
			return nil, ErrOutOfMemory
		}
		if a.next.CompareAndSwap(cur, end) {
			return a.buf[aligned:end:end], nil
		}
		// Lost the race; retry with the updated cursor.
	}
}

// Used reports how many bytes are consumed, including alignment padding.
func (a *Arena) Used() int { return int(a.next.Load()) }

// Size reports the arena capacity in bytes.
func (a *Arena) Size() int { return len(a.buf) }

// Reset returns the whole arena to the free state. Previously handed out
// slices must no longer be used; the caller owns that invariant.
func (a *Arena) Reset() { a.next.Store(0) }
