// Package normalize turns a media reference into canonical recognition audio
// (mono, 16 kHz, 16-bit PCM WAV).
//
// WAV inputs pass through untouched and stay owned by the caller. Everything
// else runs an ordered list of strategies picked from a decision table keyed
// on format tag and transcoder availability. Attempts run strictly in
// sequence; each one writes into a janitor temp file that is removed before
// the next attempt starts, so at most one temp file survives an invocation.
//
// Transcoder availability is probed once when the Pipeline is built and
// never changes afterwards.
package normalize
