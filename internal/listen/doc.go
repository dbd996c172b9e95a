// Package listen implements continuous microphone transcription.
//
// A producer goroutine records fixed-length segments into janitor temp files
// and sends them on a bounded channel. The channel blocks the producer when
// full, so no captured segment is dropped. One consumer transcribes segments
// in capture order and prints each recognised phrase as a line. Cancelling the
// context stops capture between segments; segments still queued at that point
// are released without being sent to the backend.
//
// Only one listener may run per lock directory at a time.
package listen
