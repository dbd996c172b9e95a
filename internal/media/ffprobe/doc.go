// Package ffprobe wraps ffprobe JSON output for pre-normalization
// diagnostics. Nothing in the pipeline routes on it; a missing or failing
// ffprobe only costs the summary log line.
package ffprobe
