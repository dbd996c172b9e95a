package listen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"voxscribe/internal/janitor"
	"voxscribe/internal/logging"
	"voxscribe/internal/recognize"
	"voxscribe/internal/services"
	"voxscribe/internal/transcript"
)

const (
	// LockFileName is created inside the lock directory while listening.
	LockFileName = "voxscribe-listen.lock"

	maxConsecutiveCaptureFailures = 3
)

// Transcriber recognises one canonical WAV file.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (recognize.Result, error)
}

// Config controls a Listener.
type Config struct {
	LockDir   string
	QueueSize int
}

// Listener runs the capture and transcription loop.
type Listener struct {
	cfg         Config
	capturer    Capturer
	transcriber Transcriber
	janitor     *janitor.Janitor
	logger      *slog.Logger
}

// New constructs a Listener.
func New(cfg Config, capturer Capturer, transcriber Transcriber, jan *janitor.Janitor, logger *slog.Logger) *Listener {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	return &Listener{
		cfg:         cfg,
		capturer:    capturer,
		transcriber: transcriber,
		janitor:     jan,
		logger:      logging.NewComponentLogger(logger, "listen"),
	}
}

// Run listens until ctx is cancelled or capture keeps failing. Recognised
// phrases are written to out, one per line. Cancellation is a clean stop and
// returns nil.
func (l *Listener) Run(ctx context.Context, out io.Writer) error {
	lock, err := l.acquire()
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			l.logger.Warn("failed to release listen lock", logging.Error(err))
		}
	}()

	segments := make(chan *janitor.Temp, l.cfg.QueueSize)
	var (
		wg         sync.WaitGroup
		produceErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(segments)
		produceErr = l.produce(ctx, segments)
	}()

	l.logger.Info("listening", logging.Int("queue_size", l.cfg.QueueSize))
	count := 0
	for tmp := range segments {
		if ctx.Err() != nil {
			tmp.Release()
			continue
		}
		count++
		l.consume(ctx, tmp, count, out)
	}
	wg.Wait()
	l.logger.Info("stopped listening", logging.Int("segments", count))
	return produceErr
}

func (l *Listener) acquire() (*flock.Flock, error) {
	dir := l.cfg.LockDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrPrecondition, "listen", "create lock dir", dir, err)
	}
	path := filepath.Join(dir, LockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrPrecondition, "listen", "acquire lock", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrPrecondition, "listen", "acquire lock", fmt.Sprintf("another listener holds %s", path), nil)
	}
	return lock, nil
}

func (l *Listener) produce(ctx context.Context, segments chan<- *janitor.Temp) error {
	failures := 0
	for ctx.Err() == nil {
		tmp, err := l.janitor.Scoped(".wav", func(dest string) error {
			return l.capturer.Capture(ctx, dest)
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			failures++
			logging.WarnWithContext(l.logger, "segment capture failed", "capture_failed",
				logging.Error(err),
				logging.Int("consecutive_failures", failures),
				logging.String(logging.FieldErrorHint, "check listen.device and listen.input_format"),
				logging.String(logging.FieldImpact, "audio from this interval is lost"),
			)
			if failures >= maxConsecutiveCaptureFailures {
				return services.Wrap(services.ErrExternalTool, "listen", "capture", fmt.Sprintf("%d consecutive failures", failures), err)
			}
			continue
		}
		failures = 0
		select {
		case segments <- tmp:
		case <-ctx.Done():
			tmp.Release()
			return nil
		}
	}
	return nil
}

func (l *Listener) consume(ctx context.Context, tmp *janitor.Temp, index int, out io.Writer) {
	defer tmp.Release()
	result, err := l.transcriber.Transcribe(ctx, tmp.Path())
	switch {
	case err != nil:
		if errors.Is(err, context.Canceled) {
			return
		}
		logging.WarnWithContext(l.logger, "segment transcription failed", "segment_failed",
			logging.Int("segment", index),
			logging.String("kind", services.KindOf(err).String()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access and recognizer settings"),
			logging.String(logging.FieldImpact, "phrase skipped; listening continues"),
		)
	case result.Status == recognize.StatusNoSpeech:
		l.logger.Debug("no speech in segment", logging.Int("segment", index))
	default:
		if err := transcript.WriteLine(out, result.Text); err != nil {
			l.logger.Warn("failed to write phrase", logging.Error(err))
		}
	}
}
