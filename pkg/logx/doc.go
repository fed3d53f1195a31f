// Package logx configures coros's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep:
//   - Console output readable (short timestamp + short caller)
//   - File output JSON-structured
//
// Sinks and levels can be re-applied at runtime (config hot reload)
// without invalidating Logger values already handed out.
package logx
