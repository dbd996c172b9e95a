package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	cause := errors.New("ffmpeg: moov atom not found")
	err := Wrap(ErrExtractionFailed, "normalize", "extract", "all strategies failed", cause)

	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected extraction marker, got %v", err)
	}
	if !errors.Is(err, ErrUnsupportedMedia) {
		t.Fatalf("expected extraction failure to match unsupported media, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	if !strings.Contains(err.Error(), "normalize: extract: all strategies failed") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"not found", Wrap(ErrInputNotFound, "session", "open", "", nil), KindInputNotFound},
		{"decode", Wrap(ErrDecodeFailed, "normalize", "decode", "", errors.New("bad header")), KindUnsupportedMedia},
		{"extract", Wrap(ErrExtractionFailed, "normalize", "extract", "", nil), KindUnsupportedMedia},
		{"backend", Wrap(ErrRecognitionUnavailable, "recognize", "request", "", errors.New("quota")), KindRecognitionUnavailable},
		{"precondition", Wrap(ErrPrecondition, "preflight", "", "temp dir", nil), KindPrecondition},
		{"config", fmt.Errorf("load: %w", ErrConfiguration), KindPrecondition},
		{"other", errors.New("boom"), KindFatal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := KindOf(tc.err); got != tc.want {
				t.Fatalf("KindOf = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if code := ExitCode(nil); code != 0 {
		t.Fatalf("expected 0 for success, got %d", code)
	}
	if code := ExitCode(Wrap(ErrInputNotFound, "", "", "", nil)); code != 1 {
		t.Fatalf("expected 1 for missing input, got %d", code)
	}
	if code := ExitCode(Wrap(ErrRecognitionUnavailable, "", "", "", nil)); code != 0 {
		t.Fatalf("expected 0 for a reported backend failure, got %d", code)
	}
	if code := ExitCode(Wrap(ErrDecodeFailed, "", "", "", nil)); code != 1 {
		t.Fatalf("expected 1 for undecodable input, got %d", code)
	}
	if code := ExitCode(Wrap(ErrPrecondition, "", "", "", nil)); code != 1 {
		t.Fatalf("expected 1 for unmet precondition, got %d", code)
	}
	if code := ExitCode(errors.New("boom")); code != 1 {
		t.Fatalf("expected 1 for fatal error, got %d", code)
	}
}

func TestDetailReturnsInnermostMessage(t *testing.T) {
	cause := errors.New("  http 429: quota exceeded ")
	err := Wrap(ErrRecognitionUnavailable, "recognize", "request", "", fmt.Errorf("speech: %w", cause))
	if got := Detail(err); got != "http 429: quota exceeded" {
		t.Fatalf("unexpected detail %q", got)
	}
	if Detail(nil) != "" {
		t.Fatal("expected empty detail for nil")
	}
}

func TestDetailWithoutCauseKeepsMessage(t *testing.T) {
	err := Wrap(ErrExtractionFailed, "transcoder", "extract", "empty output", nil)
	if got := Detail(err); got != "transcoder: extract: empty output" {
		t.Fatalf("unexpected detail %q", got)
	}
	nested := Wrap(ErrDecodeFailed, "normalize", "library", "", Wrap(ErrExternalTool, "decode", "open", "no decoder", nil))
	if got := Detail(nested); got != "decode: open: no decoder" {
		t.Fatalf("unexpected nested detail %q", got)
	}
	if got := Detail(ErrRecognitionUnavailable); got != "recognition unavailable" {
		t.Fatalf("unexpected marker detail %q", got)
	}
}
