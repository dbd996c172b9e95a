package decode

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"voxscribe/internal/logging"
	"voxscribe/internal/media/format"
	"voxscribe/internal/services"
)

// ErrNoDecoder reports a codec with no in-process decoder.
var ErrNoDecoder = errors.New("no in-process decoder")

// Canonical is the target recognition format.
var Canonical = beep.Format{SampleRate: 16000, NumChannels: 1, Precision: 2}

const resampleQuality = 4

// Audio is a decoded stream ready for export. Close releases the underlying
// file.
type Audio struct {
	Stream beep.StreamSeekCloser
	Format beep.Format
	Codec  format.Codec
}

// Close releases the decoder.
func (a *Audio) Close() error {
	if a == nil || a.Stream == nil {
		return nil
	}
	return a.Stream.Close()
}

// Decoder opens media files with the library decoders.
type Decoder struct {
	logger *slog.Logger
}

// New returns a Decoder.
func New(logger *slog.Logger) *Decoder {
	return &Decoder{logger: logging.NewComponentLogger(logger, "decoder")}
}

// Open decodes path using codec. CodecAuto sniffs the container from its
// leading bytes.
func (d *Decoder) Open(path string, codec format.Codec) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrDecodeFailed, "decoder", "open", path, err)
	}
	if codec == format.CodecAuto {
		codec, err = sniff(f)
		if err != nil {
			_ = f.Close()
			return nil, services.Wrap(services.ErrDecodeFailed, "decoder", "detect format", path, err)
		}
		d.logger.Debug("detected container", logging.String("codec", string(codec)))
	}

	var (
		stream beep.StreamSeekCloser
		fmtOut beep.Format
	)
	switch codec {
	case format.CodecWAV:
		stream, fmtOut, err = wav.Decode(f)
	case format.CodecMP3:
		stream, fmtOut, err = mp3.Decode(f)
	case format.CodecFLAC:
		stream, fmtOut, err = flac.Decode(f)
	case format.CodecOGG:
		stream, fmtOut, err = vorbis.Decode(f)
	default:
		_ = f.Close()
		return nil, services.Wrap(services.ErrDecodeFailed, "decoder", "open", fmt.Sprintf("codec %q", codec), ErrNoDecoder)
	}
	if err != nil {
		_ = f.Close()
		return nil, services.Wrap(services.ErrDecodeFailed, "decoder", "decode "+string(codec), path, err)
	}
	if fmtOut.SampleRate <= 0 || fmtOut.NumChannels <= 0 {
		_ = stream.Close()
		return nil, services.Wrap(services.ErrDecodeFailed, "decoder", "decode "+string(codec), "invalid stream format", nil)
	}
	return &Audio{Stream: stream, Format: fmtOut, Codec: codec}, nil
}

// Export writes audio to dest in the canonical format, truncating dest.
func Export(audio *Audio, dest string) error {
	if audio == nil || audio.Stream == nil {
		return services.Wrap(services.ErrDecodeFailed, "decoder", "export", "no audio", nil)
	}
	counter := &frameCounter{s: downmix(audio.Stream)}
	var stream beep.Streamer = counter
	if audio.Format.SampleRate != Canonical.SampleRate {
		stream = beep.Resample(resampleQuality, audio.Format.SampleRate, Canonical.SampleRate, counter)
	}

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return services.Wrap(services.ErrDecodeFailed, "decoder", "export", dest, err)
	}
	if err := wav.Encode(f, stream, Canonical); err != nil {
		_ = f.Close()
		return services.Wrap(services.ErrDecodeFailed, "decoder", "export", "encode wav", err)
	}
	if err := f.Close(); err != nil {
		return services.Wrap(services.ErrDecodeFailed, "decoder", "export", "close output", err)
	}
	if err := audio.Stream.Err(); err != nil {
		return services.Wrap(services.ErrDecodeFailed, "decoder", "export", "stream error", err)
	}
	if counter.frames == 0 {
		return services.Wrap(services.ErrDecodeFailed, "decoder", "export", "no audio frames decoded", nil)
	}
	return nil
}

// Inspect reads the WAV header of path.
func Inspect(path string) (beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return beep.Format{}, err
	}
	defer f.Close()
	stream, fmtOut, err := wav.Decode(f)
	if err != nil {
		return beep.Format{}, err
	}
	_ = stream.Close()
	return fmtOut, nil
}

// IsCanonical reports whether f matches the recognition format.
func IsCanonical(f beep.Format) bool {
	return f.SampleRate == Canonical.SampleRate &&
		f.NumChannels == Canonical.NumChannels &&
		f.Precision == Canonical.Precision
}

// sniff identifies the container from magic bytes and rewinds f.
func sniff(f *os.File) (format.Codec, error) {
	head := make([]byte, 12)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return format.CodecAuto, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return format.CodecAuto, err
	}
	codec := Sniff(head[:n])
	if codec == format.CodecAuto {
		return codec, ErrNoDecoder
	}
	return codec, nil
}

// Sniff maps leading bytes to a decodable codec, or CodecAuto when unknown.
func Sniff(head []byte) format.Codec {
	switch {
	case len(head) >= 12 && string(head[0:4]) == "RIFF" && string(head[8:12]) == "WAVE":
		return format.CodecWAV
	case len(head) >= 4 && string(head[0:4]) == "fLaC":
		return format.CodecFLAC
	case len(head) >= 4 && string(head[0:4]) == "OggS":
		return format.CodecOGG
	case len(head) >= 3 && string(head[0:3]) == "ID3":
		return format.CodecMP3
	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		return format.CodecMP3
	default:
		return format.CodecAuto
	}
}

// downmix averages both channels into each output channel.
func downmix(s beep.Streamer) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		n, ok := s.Stream(samples)
		for i := range samples[:n] {
			mono := (samples[i][0] + samples[i][1]) / 2
			samples[i][0], samples[i][1] = mono, mono
		}
		return n, ok
	})
}

type frameCounter struct {
	s      beep.Streamer
	frames int
}

func (c *frameCounter) Stream(samples [][2]float64) (int, bool) {
	n, ok := c.s.Stream(samples)
	c.frames += n
	return n, ok
}

func (c *frameCounter) Err() error {
	return c.s.Err()
}
