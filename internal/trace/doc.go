// Package trace records kernel lifecycle events into a local SQLite
// database for post-run inspection.
//
// The recorder subscribes to the event bus and must never slow the
// scheduler down: step events are rate limited, lifecycle events
// (register/setup/retire) are always kept, and writes happen on the
// recorder's own goroutine.
package trace
