// Package decode is the in-process fallback used when ffmpeg is missing or
// fails. It decodes WAV, MP3, FLAC and Ogg Vorbis with gopxl/beep and exports
// the canonical mono 16 kHz 16-bit WAV. Containers beep cannot read (AAC, M4A,
// Opus, WMA, WebM and video formats) fail with ErrNoDecoder.
//
// The package also loads WAV clips into memory for recognition and verifies
// normalized output.
package decode
