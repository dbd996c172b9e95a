// Package preflight provides readiness checks for the paths, binaries and
// settings voxscribe depends on.
//
// The "voxscribe deps" command prints every result. The transcribe command
// only fails fast on RequiredFailures; optional checks such as ffmpeg are
// reported but never block, because the library decoder covers for them.
package preflight
