// Package logging assembles structured slog loggers and formatting helpers used
// across voxscribe.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with the session identifier and stage. Every handler writes to stderr
// (plus an optional log file): stdout belongs to the transcript framing and
// must never receive diagnostics.
//
// The package also provides a no-op logger for tests and wiring code that
// cannot fail.
package logging
