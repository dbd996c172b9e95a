package preflight

import (
	"context"
	"strings"

	"voxscribe/internal/config"
	"voxscribe/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes every check for cfg.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Temp directory", cfg.Paths.TempDir))
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	results = append(results, CheckSpeechAPIKey(cfg.Recognizer))
	results = append(results, CheckLibraryDecoder(cfg.Paths.TempDir))
	for _, status := range CheckSystemDeps(ctx, cfg) {
		results = append(results, fromStatus(status))
	}
	return results
}

// RequiredFailures returns the failed checks that are not optional.
func RequiredFailures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			failed = append(failed, r)
		}
	}
	return failed
}

// CheckSystemDeps evaluates the external binaries for cfg. Both are optional:
// without ffmpeg the library decoder handles audio containers, and ffprobe
// only feeds diagnostics.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.Transcoder.FFmpegBinary,
			Description: "Extracts audio from video containers and records live input",
			Optional:    true,
			VersionArgs: []string{"-version"},
		},
		{
			Name:        "FFprobe",
			Command:     cfg.Transcoder.FFprobeBinary,
			Description: "Logs media diagnostics before normalization",
			Optional:    true,
			VersionArgs: []string{"-version"},
		},
	}
	return deps.CheckBinaries(ctx, requirements)
}

func fromStatus(s deps.Status) Result {
	detail := strings.TrimSpace(s.Version)
	if !s.Available {
		detail = s.Detail
	}
	if detail == "" {
		detail = s.Command
	}
	return Result{Name: s.Name, Passed: s.Available, Optional: s.Optional, Detail: detail}
}
