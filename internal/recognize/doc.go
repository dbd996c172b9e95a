// Package recognize turns canonical audio into a transcription result.
//
// A Recognizer reads the whole WAV file, calibrates the energy threshold
// against the leading ambient window, and issues exactly one request to its
// Backend. Three outcomes stay distinct: text, no speech (not an error), and
// an error marked services.ErrRecognitionUnavailable.
package recognize
