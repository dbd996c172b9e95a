package recognize

import (
	"math"
	"time"

	"voxscribe/internal/decode"
)

const (
	calibrationChunk = 1024
	dampingBase      = 0.15
	energyRatio      = 1.5
)

// Calibrate adapts threshold to the ambient energy of the first duration of
// clip. Each 1024-frame buffer moves the threshold toward 1.5 times the
// buffer RMS with damping 0.15^seconds_per_buffer. The clip is not consumed.
func Calibrate(clip *decode.Clip, threshold float64, duration time.Duration) float64 {
	rate := float64(clip.Format.SampleRate)
	if rate <= 0 || duration <= 0 {
		return threshold
	}
	secondsPerBuffer := calibrationChunk / rate
	damping := math.Pow(dampingBase, secondsPerBuffer)
	limit := duration.Seconds()
	elapsed := 0.0
	for offset := 0; offset < clip.Frames(); offset += calibrationChunk {
		elapsed += secondsPerBuffer
		if elapsed > limit {
			break
		}
		target := clip.RMS16(offset, offset+calibrationChunk) * energyRatio
		threshold = threshold*damping + target*(1-damping)
	}
	return threshold
}
