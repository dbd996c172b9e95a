// Package services defines shared utilities consumed by the normalization
// pipeline, the recognition adapter and the external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session identifiers and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that translate strategy,
//     library and backend failures into the caller-facing taxonomy
//     (input not found, unsupported media, recognition unavailable).
//   - Exit code mapping used by the CLI.
//
// Use these helpers when wiring new stage logic so failure reporting stays
// uniform: raw tool or backend text is kept as the nested error while the
// marker decides what the caller sees.
package services
