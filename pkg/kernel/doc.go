// Package kernel implements a cooperative, single-goroutine task manager.
//
// # Overview
//
// A task is three zero-argument behaviors: a setup function run exactly
// once, a loop function run on every scheduling pass, and a stop condition
// evaluated after each loop call. Tasks are registered into a fixed-capacity
// ordered registry before the scheduler starts; Start then drives every
// task round-robin, forever.
//
// # Scheduling model
//
// There is exactly one logical thread of control. A task yields only by
// returning from its loop function; the kernel never preempts, times out,
// or interleaves task code. Within a pass, tasks run in priority order
// (high to low) and, among equal priorities, in registration order. A
// task whose stop condition returns true is retired: its slot is kept but
// its loop is never invoked again.
//
// Because the registry is mutated only before Start and only read by the
// dispatch loop afterwards, the hot path takes no locks. Registration
// after Start is a contract violation and fails with ErrStarted.
//
// # Lifecycle
//
// Start never returns. When every task has retired the kernel keeps
// spinning in an idle loop (optionally pausing between passes, see
// WithIdlePause) rather than falling off the end: on the targets this
// models there is no caller to return to. Tests and host tooling should
// use RunPasses, which drives a bounded number of passes and returns.
//
// # Caller obligations
//
// Task behaviors must be non-blocking and bounded: a loop function that
// never returns starves every other task. Faults raised inside task code
// are not recovered here; failure handling belongs to the embedding
// application.
package kernel
