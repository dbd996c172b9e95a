package decode

import (
	"encoding/binary"
	"math"
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// Clip is a WAV file held in memory as mono samples in [-1, 1] at its native
// sample rate.
type Clip struct {
	Format  beep.Format
	Samples []float64
}

// LoadClip reads an entire WAV file into memory.
func LoadClip(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	stream, fmtOut, err := wav.Decode(f)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	clip := &Clip{Format: fmtOut}
	if n := stream.Len(); n > 0 {
		clip.Samples = make([]float64, 0, n)
	}
	buf := make([][2]float64, 1024)
	for {
		n, ok := stream.Stream(buf)
		for _, frame := range buf[:n] {
			clip.Samples = append(clip.Samples, (frame[0]+frame[1])/2)
		}
		if !ok {
			break
		}
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return clip, nil
}

// Frames returns the number of sample frames.
func (c *Clip) Frames() int {
	return len(c.Samples)
}

// Duration returns the playback length.
func (c *Clip) Duration() time.Duration {
	if c.Format.SampleRate <= 0 {
		return 0
	}
	return c.Format.SampleRate.D(len(c.Samples))
}

// SampleWidth returns the source sample width in bytes.
func (c *Clip) SampleWidth() int {
	return c.Format.Precision
}

// RMS16 returns the root mean square of frames [from, to) scaled to the
// signed 16-bit range.
func (c *Clip) RMS16(from, to int) float64 {
	from = max(from, 0)
	to = min(to, len(c.Samples))
	if to <= from {
		return 0
	}
	var sum float64
	for _, s := range c.Samples[from:to] {
		v := s * 32768
		sum += v * v
	}
	return math.Sqrt(sum / float64(to-from))
}

// PCM16 returns the clip resampled to rate as little-endian signed 16-bit
// mono PCM.
func (c *Clip) PCM16(rate beep.SampleRate) []byte {
	if len(c.Samples) == 0 {
		return nil
	}
	pos := 0
	var stream beep.Streamer = beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(c.Samples) {
			return 0, false
		}
		n := copy2(samples, c.Samples[pos:])
		pos += n
		return n, true
	})
	if c.Format.SampleRate != rate && c.Format.SampleRate > 0 {
		stream = beep.Resample(resampleQuality, c.Format.SampleRate, rate, stream)
	}

	out := make([]byte, 0, 2*len(c.Samples))
	buf := make([][2]float64, 1024)
	for {
		n, ok := stream.Stream(buf)
		for _, frame := range buf[:n] {
			out = binary.LittleEndian.AppendUint16(out, uint16(quantize16(frame[0])))
		}
		if !ok {
			break
		}
	}
	return out
}

func copy2(dst [][2]float64, src []float64) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i][0], dst[i][1] = src[i], src[i]
	}
	return n
}

func quantize16(v float64) int16 {
	v = math.Round(v * 32767)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}
