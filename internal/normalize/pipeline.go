package normalize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gopxl/beep/v2"

	"voxscribe/internal/decode"
	"voxscribe/internal/janitor"
	"voxscribe/internal/logging"
	"voxscribe/internal/media"
	"voxscribe/internal/media/format"
	"voxscribe/internal/services"
)

// NormalizedAudio is canonical audio ready for recognition. When Owned is
// true Path is a pipeline temp file and Release deletes it; otherwise Path is
// the caller's input and Release does nothing.
type NormalizedAudio struct {
	Path     string
	Owned    bool
	Format   beep.Format
	Strategy string

	temp *janitor.Temp
}

// Release deletes the temp file when the pipeline owns it. Safe to call more
// than once.
func (a *NormalizedAudio) Release() {
	if a == nil || !a.Owned {
		return
	}
	a.temp.Release()
}

// Pipeline normalizes media references.
type Pipeline struct {
	janitor       *janitor.Janitor
	logger        *slog.Logger
	toolAvailable bool
	transcoder    Strategy
	library       Strategy
}

// New builds a Pipeline and probes the transcoder once. A nil tool counts as
// unavailable.
func New(ctx context.Context, tool Extractor, decoder Decoder, jan *janitor.Janitor, logger *slog.Logger) *Pipeline {
	logger = logging.NewComponentLogger(logger, "normalize")
	available := false
	if tool != nil {
		if err := tool.Probe(ctx); err != nil {
			logging.WarnWithContext(logger, "transcoder unavailable; using library decoder only", "transcoder_unavailable",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "install ffmpeg or set transcoder.ffmpeg_binary"),
				logging.String(logging.FieldImpact, "video containers beyond the library's reach will fail"),
			)
		} else {
			available = true
		}
	}
	return &Pipeline{
		janitor:       jan,
		logger:        logger,
		toolAvailable: available,
		transcoder:    transcoderStrategy{tool: tool},
		library:       libraryStrategy{decoder: decoder},
	}
}

// ToolAvailable reports the cached probe result.
func (p *Pipeline) ToolAvailable() bool {
	return p.toolAvailable
}

// Normalize produces canonical audio for ref. The returned audio must be
// released by the caller.
func (p *Pipeline) Normalize(ctx context.Context, ref media.Reference) (*NormalizedAudio, error) {
	ctx = services.WithStage(ctx, "normalize")
	logger := logging.WithContext(ctx, p.logger)

	strategies := plan(ref.Tag(), p.toolAvailable, p.transcoder, p.library)
	if len(strategies) == 0 {
		logger.Info("wav input used as-is", logging.String("path", ref.Path))
		return &NormalizedAudio{Path: ref.Path, Owned: false, Strategy: StrategyPassthrough}, nil
	}

	var lastErr error
	for i, strategy := range strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 {
			logging.WarnWithContext(logger, "falling back to next strategy", "strategy_fallback",
				logging.String("failed", strategies[i-1].Name()),
				logging.String("next", strategy.Name()),
				logging.String("error_detail", services.Detail(lastErr)),
				logging.String(logging.FieldErrorHint, "run with --log-level debug for tool output"),
				logging.String(logging.FieldImpact, "normalization continues with a slower path"),
			)
		}
		started := time.Now()
		var produced beep.Format
		tmp, err := p.janitor.Scoped(".wav", func(dest string) error {
			if err := strategy.Produce(ctx, ref, dest); err != nil {
				return err
			}
			f, err := verify(dest)
			produced = f
			return err
		})
		if err == nil {
			logger.Info("audio normalized",
				logging.String("strategy", strategy.Name()),
				logging.String("output", tmp.Path()),
				logging.Duration("elapsed", time.Since(started)),
			)
			return &NormalizedAudio{
				Path:     tmp.Path(),
				Owned:    true,
				Format:   produced,
				Strategy: strategy.Name(),
				temp:     tmp,
			}, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, services.ErrPrecondition) {
			return nil, err
		}
		logger.Debug("strategy failed", logging.String("strategy", strategy.Name()), logging.Error(err))
		lastErr = err
	}

	marker := services.ErrDecodeFailed
	if ref.Tag() == format.Video {
		marker = services.ErrExtractionFailed
	}
	return nil, services.Wrap(marker, "normalize", ref.Class.Tag.String(), fmt.Sprintf("could not normalize %s", ref.Path), lastErr)
}

func verify(path string) (beep.Format, error) {
	f, err := decode.Inspect(path)
	if err != nil {
		return beep.Format{}, services.Wrap(services.ErrExtractionFailed, "normalize", "verify", "unreadable output", err)
	}
	if !decode.IsCanonical(f) {
		return f, services.Wrap(services.ErrExtractionFailed, "normalize", "verify",
			fmt.Sprintf("output is %d Hz, %d ch, %d-bit", f.SampleRate, f.NumChannels, f.Precision*8), nil)
	}
	return f, nil
}
