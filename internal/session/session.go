package session

import (
	"context"
	"log/slog"
	"os/exec"
	"strconv"
	"time"

	"github.com/google/uuid"

	"voxscribe/internal/config"
	"voxscribe/internal/decode"
	"voxscribe/internal/janitor"
	"voxscribe/internal/logging"
	"voxscribe/internal/media"
	"voxscribe/internal/media/ffprobe"
	"voxscribe/internal/normalize"
	"voxscribe/internal/recognize"
	"voxscribe/internal/services"
	"voxscribe/internal/services/speech"
	"voxscribe/internal/transcode"
)

const probeTimeout = 15 * time.Second

// Options are per-call overrides.
type Options struct {
	// Language overrides the configured recognizer language when set.
	Language string
	// ChunkMode is accepted for compatibility and has no effect.
	ChunkMode bool
}

// Session is the per-invocation object graph.
type Session struct {
	id         string
	cfg        *config.Config
	logger     *slog.Logger
	janitor    *janitor.Janitor
	pipeline   *normalize.Pipeline
	recognizer *recognize.Recognizer
	probe      ffprobe.Runner
}

// Option customizes session construction.
type Option func(*builder)

type builder struct {
	backend   recognize.Backend
	extractor normalize.Extractor
	probe     ffprobe.Runner
}

// WithBackend replaces the HTTP speech backend.
func WithBackend(backend recognize.Backend) Option {
	return func(b *builder) { b.backend = backend }
}

// WithExtractor replaces the ffmpeg transcoder.
func WithExtractor(extractor normalize.Extractor) Option {
	return func(b *builder) { b.extractor = extractor }
}

// WithProbeRunner replaces the ffprobe runner used for diagnostics.
func WithProbeRunner(run ffprobe.Runner) Option {
	return func(b *builder) { b.probe = run }
}

// New builds a session. The transcoder is probed here, once.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "session", "init", "config is required", nil)
	}
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}
	id := uuid.NewString()
	ctx = services.WithSessionID(ctx, id)
	if logger == nil {
		logger = logging.NewNop()
	}

	if b.backend == nil {
		b.backend = speech.NewClient(speech.Config{
			BaseURL:         cfg.Recognizer.BaseURL,
			APIKey:          cfg.Recognizer.APIKey,
			ProfanityFilter: cfg.Recognizer.ProfanityFilter,
			TimeoutSeconds:  cfg.Recognizer.TimeoutSeconds,
		})
	}
	if b.extractor == nil {
		b.extractor = transcode.New(cfg.Transcoder.FFmpegBinary, cfg.TranscoderTimeout(), logger)
	}

	recognizer, err := recognize.New(recognize.Config{
		Language:               cfg.Recognizer.Language,
		EnergyThreshold:        cfg.Recognizer.EnergyThreshold,
		DynamicEnergyThreshold: cfg.Recognizer.DynamicEnergyThreshold,
		AmbientDuration:        cfg.AmbientDuration(),
	}, b.backend, logger)
	if err != nil {
		return nil, err
	}

	jan := janitor.New(cfg.Paths.TempDir, logger)
	pipeline := normalize.New(ctx, b.extractor, decode.New(logger), jan, logger)

	return &Session{
		id:         id,
		cfg:        cfg,
		logger:     logging.WithContext(ctx, logging.NewComponentLogger(logger, "session")),
		janitor:    jan,
		pipeline:   pipeline,
		recognizer: recognizer,
		probe:      b.probe,
	}, nil
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Janitor returns the session's temp file owner.
func (s *Session) Janitor() *janitor.Janitor { return s.janitor }

// Recognizer returns the configured recognizer.
func (s *Session) Recognizer() *recognize.Recognizer { return s.recognizer }

// ToolAvailable reports whether the transcoder probe succeeded.
func (s *Session) ToolAvailable() bool { return s.pipeline.ToolAvailable() }

// Close removes any temp file still outstanding, e.g. after an interrupt.
func (s *Session) Close() {
	s.janitor.ReleaseAll()
}

// TranscribeFile normalizes and recognises the media file at path.
func (s *Session) TranscribeFile(ctx context.Context, path string, opts Options) (recognize.Result, error) {
	ctx = services.WithSessionID(ctx, s.id)
	logger := s.logger

	ref, err := media.Open(path)
	if err != nil {
		return recognize.Result{}, err
	}
	recognizer := s.recognizer
	if opts.Language != "" && opts.Language != recognizer.Config().Language {
		recognizer, err = recognizer.WithLanguage(opts.Language)
		if err != nil {
			return recognize.Result{}, err
		}
	}

	logger.Info("transcribing file",
		logging.String("path", ref.Path),
		logging.Int64("size_bytes", ref.Size),
		logging.String("size_mb", formatMB(ref.SizeMB())),
		logging.String("format", ref.Tag().String()),
		logging.String("codec", string(ref.Class.Codec)),
		logging.String("language", recognizer.Config().Language),
	)
	if opts.ChunkMode {
		logger.Info("chunk mode requested; processing the file as a single request")
	}
	s.logDiagnostics(ctx, ref)

	audio, err := s.pipeline.Normalize(ctx, ref)
	if err != nil {
		return recognize.Result{}, err
	}
	defer audio.Release()

	return recognizer.Transcribe(ctx, audio.Path)
}

func (s *Session) logDiagnostics(ctx context.Context, ref media.Reference) {
	binary := s.cfg.Transcoder.FFprobeBinary
	run := s.probe
	if run == nil {
		if _, err := exec.LookPath(binary); err != nil {
			s.logger.Debug("ffprobe not found; skipping media diagnostics", logging.String("binary", binary))
			return
		}
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	result, err := ffprobe.InspectWith(ctx, run, binary, ref.Path)
	if err != nil {
		s.logger.Debug("ffprobe inspection failed", logging.Error(err))
		return
	}
	s.logger.Info("media probed", logging.String("summary", result.Summary()))
}

func formatMB(mb float64) string {
	return strconv.FormatFloat(mb, 'f', 2, 64)
}
