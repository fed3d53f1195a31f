// Package boot implements the startup trampoline: the one-time memory
// materialization that must complete before any application code runs,
// followed by a control transfer that never comes back.
//
// Memory is modeled as two byte images: a writable RAM image and a
// read-only ROM image holding the initialized-data payload. A Layout
// describes, as offsets resolved by the embedder, which RAM ranges must
// be zero-filled and which must be populated byte-for-byte from ROM.
// The trampoline trusts these descriptors; there is no fault isolation
// on the targets this models, so it performs no validation beyond what
// the language itself enforces.
//
// Boot materializes the layout and then transfers control to the entry
// function. The entry contract is diverging; if it ever returns anyway,
// Boot falls into a terminal idle spin instead of returning to a caller
// that does not exist.
package boot
