package testsupport

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Tone describes a generated test signal. A zero Frequency yields silence.
type Tone struct {
	Frequency  float64
	Amplitude  float64
	Seconds    float64
	SampleRate int
	Channels   int
	Precision  int
}

// SpeechLikeTone is loud enough to clear the default energy threshold.
var SpeechLikeTone = Tone{Frequency: 440, Amplitude: 0.5, Seconds: 1.5, SampleRate: 16000, Channels: 1, Precision: 2}

// WriteToneWAV writes tone as a PCM WAV file at path.
func WriteToneWAV(t testing.TB, path string, tone Tone) {
	t.Helper()
	if tone.SampleRate <= 0 {
		tone.SampleRate = 16000
	}
	if tone.Channels <= 0 {
		tone.Channels = 1
	}
	if tone.Precision <= 0 {
		tone.Precision = 2
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	rate := beep.SampleRate(tone.SampleRate)
	total := rate.N(secondsDuration(tone.Seconds))
	pos := 0
	stream := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= total {
			return 0, false
		}
		n := min(len(samples), total-pos)
		for i := range n {
			v := 0.0
			if tone.Frequency > 0 {
				v = tone.Amplitude * math.Sin(2*math.Pi*tone.Frequency*float64(pos+i)/float64(tone.SampleRate))
			}
			samples[i][0], samples[i][1] = v, v
		}
		pos += n
		return n, true
	})
	format := beep.Format{SampleRate: rate, NumChannels: tone.Channels, Precision: tone.Precision}
	if err := wav.Encode(f, stream, format); err != nil {
		t.Fatalf("encode wav %s: %v", path, err)
	}
}

func secondsDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
