package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"voxscribe/internal/config"
)

func TestLoadDefaultConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.SpeechAPIKeyEnv, "env-key")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "voxscribe", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.Recognizer.Language != "en-US" {
		t.Fatalf("unexpected language %q", cfg.Recognizer.Language)
	}
	if cfg.Recognizer.EnergyThreshold != 300 {
		t.Fatalf("unexpected energy threshold %v", cfg.Recognizer.EnergyThreshold)
	}
	if !cfg.Recognizer.DynamicEnergyThreshold {
		t.Fatal("expected dynamic energy threshold enabled by default")
	}
	if cfg.AmbientDuration().Seconds() != 1.0 {
		t.Fatalf("unexpected ambient duration %v", cfg.AmbientDuration())
	}
	if cfg.Recognizer.APIKey != "env-key" {
		t.Fatalf("expected API key from env, got %q", cfg.Recognizer.APIKey)
	}
	if cfg.Transcoder.FFmpegBinary != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary %q", cfg.Transcoder.FFmpegBinary)
	}
	if cfg.Paths.TempDir == "" || !filepath.IsAbs(cfg.Paths.TempDir) {
		t.Fatalf("expected absolute temp dir, got %q", cfg.Paths.TempDir)
	}
	if cfg.Paths.LogDir != "" {
		t.Fatalf("expected file logging disabled by default, got %q", cfg.Paths.LogDir)
	}
	if cfg.Paths.LockDir != filepath.Join(tempHome, ".local", "share", "voxscribe") {
		t.Fatalf("unexpected lock dir %q", cfg.Paths.LockDir)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.LockDir); err != nil || !info.IsDir() {
		t.Fatalf("expected lock dir to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "voxscribe.toml")

	type payload struct {
		Paths struct {
			TempDir string `toml:"temp_dir"`
		} `toml:"paths"`
		Recognizer struct {
			Language        string  `toml:"language"`
			EnergyThreshold float64 `toml:"energy_threshold"`
			APIKey          string  `toml:"api_key"`
		} `toml:"recognizer"`
		Transcoder struct {
			FFmpegBinary string `toml:"ffmpeg_binary"`
		} `toml:"transcoder"`
	}
	custom := payload{}
	custom.Paths.TempDir = filepath.Join(tempDir, "scratch")
	custom.Recognizer.Language = "de_de"
	custom.Recognizer.EnergyThreshold = 450
	custom.Recognizer.APIKey = "file-key"
	custom.Transcoder.FFmpegBinary = "/opt/ffmpeg/bin/ffmpeg"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.SpeechAPIKeyEnv, "env-key")

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q (exists=%v)", resolved, exists)
	}
	if cfg.Recognizer.Language != "de-DE" {
		t.Fatalf("expected canonical language, got %q", cfg.Recognizer.Language)
	}
	if cfg.Recognizer.EnergyThreshold != 450 {
		t.Fatalf("unexpected energy threshold %v", cfg.Recognizer.EnergyThreshold)
	}
	if cfg.Recognizer.APIKey != "file-key" {
		t.Fatalf("expected file key to win over env, got %q", cfg.Recognizer.APIKey)
	}
	if cfg.Paths.TempDir != custom.Paths.TempDir {
		t.Fatalf("unexpected temp dir %q", cfg.Paths.TempDir)
	}
	if cfg.Transcoder.FFmpegBinary != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary %q", cfg.Transcoder.FFmpegBinary)
	}
	if !cfg.Recognizer.DynamicEnergyThreshold {
		t.Fatal("expected default dynamic threshold to survive partial file")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"language", "[recognizer]\nlanguage = \"!!\"\n", "recognizer.language"},
		{"threshold", "[recognizer]\nenergy_threshold = -1\n", "energy_threshold"},
		{"base url", "[recognizer]\nbase_url = \"not-a-url\"\n", "base_url"},
		{"log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"segment", "[listen]\nsegment_seconds = 600\n", "segment_seconds"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "voxscribe.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Listen.SegmentSeconds != 5 {
		t.Fatalf("unexpected segment seconds %d", cfg.Listen.SegmentSeconds)
	}
}

func TestUsesDefaultEndpoint(t *testing.T) {
	rec := config.Default().Recognizer
	if !rec.UsesDefaultEndpoint() {
		t.Fatal("default base_url should be the public endpoint")
	}
	rec.BaseURL += "/"
	if !rec.UsesDefaultEndpoint() {
		t.Fatal("trailing slash should not matter")
	}
	rec.BaseURL = "http://127.0.0.1:8080/recognize"
	if rec.UsesDefaultEndpoint() {
		t.Fatal("custom endpoint reported as default")
	}
}
