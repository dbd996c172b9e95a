package listen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"voxscribe/internal/janitor"
	"voxscribe/internal/logging"
	"voxscribe/internal/recognize"
	"voxscribe/internal/services"
)

type fileCapturer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *fileCapturer) Capture(ctx context.Context, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.calls++
	n := c.calls
	c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	return os.WriteFile(dest, []byte(fmt.Sprintf("segment %d", n)), 0o600)
}

type scriptedTranscriber struct {
	cancel  context.CancelFunc
	stopAt  int
	results func(n int) (recognize.Result, error)
	seen    []string
}

func (s *scriptedTranscriber) Transcribe(_ context.Context, path string) (recognize.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return recognize.Result{}, err
	}
	s.seen = append(s.seen, string(data))
	n := len(s.seen)
	if n == s.stopAt {
		s.cancel()
	}
	return s.results(n)
}

func newListener(t *testing.T, capturer Capturer, transcriber Transcriber, queue int) (*Listener, *janitor.Janitor, string) {
	t.Helper()
	base := t.TempDir()
	jan := janitor.New(filepath.Join(base, "tmp"), logging.NewNop())
	lockDir := filepath.Join(base, "lock")
	return New(Config{LockDir: lockDir, QueueSize: queue}, capturer, transcriber, jan, logging.NewNop()), jan, lockDir
}

func TestRunTranscribesInCaptureOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr := &scriptedTranscriber{cancel: cancel, stopAt: 3, results: func(n int) (recognize.Result, error) {
		return recognize.Result{Status: recognize.StatusText, Text: fmt.Sprintf("phrase %d", n)}, nil
	}}
	l, jan, _ := newListener(t, &fileCapturer{}, tr, 1)

	var out bytes.Buffer
	if err := l.Run(ctx, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "phrase 1\nphrase 2\nphrase 3\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	for i, seg := range tr.seen {
		if seg != fmt.Sprintf("segment %d", i+1) {
			t.Fatalf("segment %d out of order: %q", i+1, seg)
		}
	}
	if live := jan.Live(); len(live) != 0 {
		t.Fatalf("temp segments left behind: %v", live)
	}
}

func TestRunSkipsNoSpeechAndSurvivesErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr := &scriptedTranscriber{cancel: cancel, stopAt: 3, results: func(n int) (recognize.Result, error) {
		switch n {
		case 1:
			return recognize.Result{Status: recognize.StatusNoSpeech}, nil
		case 2:
			return recognize.Result{}, services.Wrap(services.ErrRecognitionUnavailable, "recognize", "request", "quota", nil)
		default:
			return recognize.Result{Status: recognize.StatusText, Text: "lights on"}, nil
		}
	}}
	l, jan, _ := newListener(t, &fileCapturer{}, tr, 4)

	var out bytes.Buffer
	if err := l.Run(ctx, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.String() != "lights on\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if live := jan.Live(); len(live) != 0 {
		t.Fatalf("temp segments left behind: %v", live)
	}
}

func TestRunStopsAfterRepeatedCaptureFailures(t *testing.T) {
	capturer := &fileCapturer{err: errors.New("alsa: no such device")}
	tr := &scriptedTranscriber{results: func(int) (recognize.Result, error) {
		t.Fatal("nothing should be transcribed")
		return recognize.Result{}, nil
	}}
	l, jan, _ := newListener(t, capturer, tr, 2)

	err := l.Run(context.Background(), &bytes.Buffer{})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if capturer.calls != maxConsecutiveCaptureFailures {
		t.Fatalf("expected %d attempts, got %d", maxConsecutiveCaptureFailures, capturer.calls)
	}
	if live := jan.Live(); len(live) != 0 {
		t.Fatalf("failed captures left temps: %v", live)
	}
}

func TestRunRefusesSecondListener(t *testing.T) {
	l, _, lockDir := newListener(t, &fileCapturer{}, &scriptedTranscriber{}, 1)
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	held := flock.New(filepath.Join(lockDir, LockFileName))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("pre-acquire lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	err = l.Run(context.Background(), &bytes.Buffer{})
	if !errors.Is(err, services.ErrPrecondition) {
		t.Fatalf("expected precondition failure, got %v", err)
	}
}

func TestRunReturnsImmediatelyWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	capturer := &fileCapturer{}
	l, _, _ := newListener(t, capturer, &scriptedTranscriber{}, 1)
	if err := l.Run(ctx, &bytes.Buffer{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if capturer.calls != 0 {
		t.Fatalf("expected no capture after cancellation, got %d", capturer.calls)
	}
}

type recorderFunc func(ctx context.Context, inputFormat, device string, seconds int, dest string) error

func (f recorderFunc) Record(ctx context.Context, inputFormat, device string, seconds int, dest string) error {
	return f(ctx, inputFormat, device, seconds, dest)
}

func TestFFmpegCapturerForwardsSettings(t *testing.T) {
	var got string
	c := FFmpegCapturer{
		Recorder: recorderFunc(func(_ context.Context, inputFormat, device string, seconds int, dest string) error {
			got = fmt.Sprintf("%s|%s|%d|%s", inputFormat, device, seconds, dest)
			return nil
		}),
		InputFormat: "pulse",
		Device:      "default",
		Seconds:     4,
	}
	if err := c.Capture(context.Background(), "seg.wav"); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if got != "pulse|default|4|seg.wav" {
		t.Fatalf("unexpected forwarded settings %q", got)
	}
}
