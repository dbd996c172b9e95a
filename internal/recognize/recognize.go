package recognize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"voxscribe/internal/decode"
	"voxscribe/internal/language"
	"voxscribe/internal/logging"
	"voxscribe/internal/services"
)

// ErrUnintelligible is returned by a Backend that heard no recognisable
// speech.
var ErrUnintelligible = errors.New("speech unintelligible")

// RequestSampleRate is the sample rate of Request.PCM.
const RequestSampleRate = 16000

// Request is one recognition call.
type Request struct {
	// PCM is mono signed 16-bit little-endian audio at RequestSampleRate.
	PCM      []byte
	Language string
}

// Backend performs the remote recognition call.
type Backend interface {
	Recognize(ctx context.Context, req Request) (string, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, req Request) (string, error)

func (f BackendFunc) Recognize(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Config is fixed for the lifetime of a Recognizer.
type Config struct {
	Language               string
	EnergyThreshold        float64
	DynamicEnergyThreshold bool
	AmbientDuration        time.Duration
}

// Status separates text from the benign empty outcome.
type Status int

const (
	StatusText Status = iota
	StatusNoSpeech
)

func (s Status) String() string {
	if s == StatusNoSpeech {
		return "NoSpeechDetected"
	}
	return "Text"
}

// Info carries audio diagnostics for one transcription.
type Info struct {
	Duration    time.Duration
	SampleRate  int
	SampleWidth int
	Frames      int
	Threshold   float64
}

// Result is a successful transcription. Text is empty when Status is
// StatusNoSpeech.
type Result struct {
	Status Status
	Text   string
	Info   Info
}

// Recognizer transcribes WAV files through a Backend.
type Recognizer struct {
	cfg     Config
	backend Backend
	logger  *slog.Logger
}

// New validates cfg and returns a Recognizer.
func New(cfg Config, backend Backend, logger *slog.Logger) (*Recognizer, error) {
	if backend == nil {
		return nil, services.Wrap(services.ErrConfiguration, "recognize", "init", "backend is required", nil)
	}
	lang, err := language.Canonical(cfg.Language)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "recognize", "init", "language", err)
	}
	cfg.Language = lang
	if cfg.EnergyThreshold < 0 || math.IsNaN(cfg.EnergyThreshold) {
		return nil, services.Wrap(services.ErrConfiguration, "recognize", "init", fmt.Sprintf("energy threshold %v", cfg.EnergyThreshold), nil)
	}
	if cfg.AmbientDuration < 0 {
		return nil, services.Wrap(services.ErrConfiguration, "recognize", "init", fmt.Sprintf("ambient duration %s", cfg.AmbientDuration), nil)
	}
	return &Recognizer{
		cfg:     cfg,
		backend: backend,
		logger:  logging.NewComponentLogger(logger, "recognizer"),
	}, nil
}

// Config returns the recognizer configuration.
func (r *Recognizer) Config() Config {
	return r.cfg
}

// WithLanguage returns a copy of r using lang.
func (r *Recognizer) WithLanguage(lang string) (*Recognizer, error) {
	cfg := r.cfg
	cfg.Language = lang
	return New(cfg, r.backend, r.logger)
}

// Transcribe recognises the WAV file at path.
func (r *Recognizer) Transcribe(ctx context.Context, path string) (Result, error) {
	ctx = services.WithStage(ctx, "recognize")
	logger := logging.WithContext(ctx, r.logger)

	clip, err := decode.LoadClip(path)
	if err != nil {
		return Result{}, services.Wrap(services.ErrDecodeFailed, "recognize", "read audio", path, err)
	}
	info := Info{
		Duration:    clip.Duration(),
		SampleRate:  int(clip.Format.SampleRate),
		SampleWidth: clip.SampleWidth(),
		Frames:      clip.Frames(),
		Threshold:   r.cfg.EnergyThreshold,
	}
	if r.cfg.DynamicEnergyThreshold {
		info.Threshold = Calibrate(clip, r.cfg.EnergyThreshold, r.cfg.AmbientDuration)
	}
	logger.Info("audio loaded",
		logging.Duration("duration", info.Duration),
		logging.Int("sample_rate", info.SampleRate),
		logging.Int("sample_width", info.SampleWidth),
		logging.Float64("energy_threshold", info.Threshold),
	)

	req := Request{PCM: clip.PCM16(RequestSampleRate), Language: r.cfg.Language}
	started := time.Now()
	text, err := r.backend.Recognize(ctx, req)
	switch {
	case errors.Is(err, ErrUnintelligible):
		logger.Info("no speech detected", logging.Duration("elapsed", time.Since(started)))
		return Result{Status: StatusNoSpeech, Info: info}, nil
	case err != nil:
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return Result{}, ctxErr
		}
		return Result{}, services.Wrap(services.ErrRecognitionUnavailable, "recognize", "request", "speech backend request failed", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		logger.Info("no speech detected", logging.Duration("elapsed", time.Since(started)))
		return Result{Status: StatusNoSpeech, Info: info}, nil
	}
	logger.Info("speech recognised",
		logging.Int("characters", len(text)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return Result{Status: StatusText, Text: text, Info: info}, nil
}
