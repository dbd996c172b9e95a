package transcode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"voxscribe/internal/logging"
	"voxscribe/internal/services"
)

const (
	// SampleRate is the canonical recognition sample rate.
	SampleRate = 16000
	// Channels is the canonical channel count.
	Channels = 1

	probeTimeout = 10 * time.Second
)

// CommandRunner executes name with args and returns combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

// Tool wraps one ffmpeg binary.
type Tool struct {
	binary  string
	timeout time.Duration
	runner  CommandRunner
	logger  *slog.Logger
}

// New constructs a Tool. A zero timeout disables the per-invocation limit.
func New(binary string, timeout time.Duration, logger *slog.Logger) *Tool {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Tool{
		binary:  binary,
		timeout: timeout,
		runner:  execRunner,
		logger:  logging.NewComponentLogger(logger, "transcoder"),
	}
}

// WithCommandRunner replaces the process runner, primarily for tests.
func (t *Tool) WithCommandRunner(runner CommandRunner) {
	if runner == nil {
		runner = execRunner
	}
	t.runner = runner
}

// Binary returns the configured ffmpeg command.
func (t *Tool) Binary() string {
	return t.binary
}

// Probe reports whether the binary can be invoked at all.
func (t *Tool) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	if _, err := t.runner(ctx, t.binary, "-version"); err != nil {
		return services.Wrap(services.ErrExternalTool, "transcoder", "probe", t.binary, err)
	}
	return nil
}

// ExtractArgs returns the ffmpeg arguments Extract uses.
func ExtractArgs(source, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(SampleRate),
		"-ac", strconv.Itoa(Channels),
		dest,
	}
}

// Extract writes the canonical audio of source to dest, overwriting dest.
// Failures are marked ErrExtractionFailed and carry the first line of the
// tool's diagnostic output.
func (t *Tool) Extract(ctx context.Context, source, dest string) error {
	return t.run(ctx, "extract", dest, ExtractArgs(source, dest))
}

// RecordArgs returns the ffmpeg arguments Record uses.
func RecordArgs(inputFormat, device string, seconds int, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", inputFormat,
		"-i", device,
		"-t", strconv.Itoa(seconds),
		"-acodec", "pcm_s16le",
		"-ar", strconv.Itoa(SampleRate),
		"-ac", strconv.Itoa(Channels),
		dest,
	}
}

// Record captures seconds of audio from device into dest.
func (t *Tool) Record(ctx context.Context, inputFormat, device string, seconds int, dest string) error {
	if seconds <= 0 {
		return services.Wrap(services.ErrConfiguration, "transcoder", "record", fmt.Sprintf("invalid duration %d", seconds), nil)
	}
	return t.run(ctx, "record", dest, RecordArgs(inputFormat, device, seconds, dest))
}

func (t *Tool) run(ctx context.Context, op, dest string, args []string) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	started := time.Now()
	output, err := t.runner(ctx, t.binary, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return services.Wrap(services.ErrExtractionFailed, "transcoder", op, fmt.Sprintf("timed out after %s", t.timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		msg := FirstLine(output)
		if msg == "" {
			msg = "ffmpeg exited with an error"
		}
		return services.Wrap(services.ErrExtractionFailed, "transcoder", op, msg, err)
	}
	info, statErr := os.Stat(dest)
	if statErr != nil {
		return services.Wrap(services.ErrExtractionFailed, "transcoder", op, "no output produced", statErr)
	}
	if info.Size() == 0 {
		return services.Wrap(services.ErrExtractionFailed, "transcoder", op, "empty output", nil)
	}
	t.logger.Debug("ffmpeg finished",
		logging.String("operation", op),
		logging.Duration("elapsed", time.Since(started)),
		logging.Int64("output_bytes", info.Size()),
	)
	return nil
}

// FirstLine returns the first non-blank line of tool output.
func FirstLine(output []byte) string {
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line
		}
	}
	return ""
}
