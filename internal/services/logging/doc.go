// Package logging configures coros's app-level structured logging.
//
// The package builds slog handlers based on configuration and can emit
// logs to multiple sinks:
//   - Console (human-friendly pretty output)
//   - File (JSON)
//
// The active handler set can be swapped atomically on config reload
// without replacing slog.Logger values already handed to components.
package logging
