// Package session wires one CLI invocation together: janitor, normalization
// pipeline (with its single transcoder probe) and recognizer, all built once
// from the loaded configuration.
//
// TranscribeFile is the file path end to end. It guarantees that any temp
// file created for the invocation is gone when it returns, whatever the
// outcome.
package session
