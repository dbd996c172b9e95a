package listen

import (
	"context"

	"voxscribe/internal/transcode"
)

// Capturer records one segment of canonical audio into dest.
type Capturer interface {
	Capture(ctx context.Context, dest string) error
}

// Recorder is the transcoder capability FFmpegCapturer needs.
type Recorder interface {
	Record(ctx context.Context, inputFormat, device string, seconds int, dest string) error
}

var _ Recorder = (*transcode.Tool)(nil)

// FFmpegCapturer records segments from an ffmpeg input device.
type FFmpegCapturer struct {
	Recorder    Recorder
	InputFormat string
	Device      string
	Seconds     int
}

// Capture records Seconds of audio from the configured device.
func (c FFmpegCapturer) Capture(ctx context.Context, dest string) error {
	return c.Recorder.Record(ctx, c.InputFormat, c.Device, c.Seconds, dest)
}
