// Package diagnostic provides structured errors, warnings and notes for a
// linking and generation run.
//
// Key capabilities:
//   - Conversion of typed pipeline errors into coded diagnostics
//   - The Sink contract the driver reports through
//   - A slog-backed sink for command line use
package diagnostic
