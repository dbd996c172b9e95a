package ffprobe

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

const sampleReport = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "44100", "channels": 2}
  ],
  "format": {"filename": "talk.mp4", "nb_streams": 2, "duration": "12.48", "format_name": "mov,mp4,m4a"}
}`

func TestInspectWithParsesReport(t *testing.T) {
	var gotArgs []string
	run := func(_ context.Context, binary string, args ...string) ([]byte, error) {
		if binary != "ffprobe" {
			t.Fatalf("unexpected binary %q", binary)
		}
		gotArgs = args
		return []byte(sampleReport), nil
	}
	result, err := InspectWith(context.Background(), run, "", "talk.mp4")
	if err != nil {
		t.Fatalf("InspectWith returned error: %v", err)
	}
	if gotArgs[len(gotArgs)-1] != "talk.mp4" || gotArgs[len(gotArgs)-2] != "--" {
		t.Fatalf("expected path after --, got %v", gotArgs)
	}
	if result.AudioStreamCount() != 1 || result.VideoStreamCount() != 1 {
		t.Fatalf("unexpected stream counts: %+v", result.Streams)
	}
	want := "mov,mp4,m4a 12.5s audio=aac/44100Hz/2ch video=1"
	if got := result.Summary(); got != want {
		t.Fatalf("Summary() = %q, want %q", got, want)
	}
}

func TestInspectWithErrors(t *testing.T) {
	if _, err := InspectWith(context.Background(), nil, "ffprobe", "  "); err == nil {
		t.Fatal("expected empty path error")
	}
	failing := func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1: moov atom not found")
	}
	_, err := InspectWith(context.Background(), failing, "ffprobe", "x.mp4")
	if err == nil || !strings.Contains(err.Error(), "moov atom") {
		t.Fatalf("expected tool error to be preserved, got %v", err)
	}
	garbage := func(context.Context, string, ...string) ([]byte, error) {
		return []byte("not json"), nil
	}
	if _, err := InspectWith(context.Background(), garbage, "ffprobe", "x.mp4"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSummaryWithoutAudio(t *testing.T) {
	result := Result{Format: Format{Duration: "bad"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected NaN duration, got %v", result.DurationSeconds())
	}
	if got := result.Summary(); got != "unknown audio=none" {
		t.Fatalf("unexpected summary %q", got)
	}
}
