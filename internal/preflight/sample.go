package preflight

import (
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// writeSilence writes one second of 44.1 kHz stereo silence so the check
// exercises resampling and downmixing.
func writeSilence(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	rate := beep.SampleRate(44100)
	remaining := rate.N(time.Second)
	silence := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if remaining <= 0 {
			return 0, false
		}
		n := min(len(samples), remaining)
		clear(samples[:n])
		remaining -= n
		return n, true
	})
	if err := wav.Encode(f, silence, beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
