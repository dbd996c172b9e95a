// Command voxscribe transcribes audio and video files, or live microphone
// input, through a web speech recognition endpoint.
//
// Transcripts are the only thing written to stdout. A file transcription is
// framed between TRANSCRIPTION_START and TRANSCRIPTION_END lines; every log
// and diagnostic goes to stderr. The process exits 0 on success, when no
// speech was detected, or when the recognition request failed (the failure is
// reported on stderr). Missing or undecodable input, unmet preconditions and
// other fatal errors exit 1.
package main
