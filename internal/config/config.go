package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	TempDir string `toml:"temp_dir"`
	LogDir  string `toml:"log_dir"`
	LockDir string `toml:"lock_dir"`
}

// Recognizer contains speech recognition settings. It is the on-disk form of
// the recognizer configuration constructed once per session.
type Recognizer struct {
	Language               string  `toml:"language"`
	EnergyThreshold        float64 `toml:"energy_threshold"`
	DynamicEnergyThreshold bool    `toml:"dynamic_energy_threshold"`
	AmbientDurationSeconds float64 `toml:"ambient_duration_seconds"`
	BaseURL                string  `toml:"base_url"`
	APIKey                 string  `toml:"api_key"`
	TimeoutSeconds         int     `toml:"timeout_seconds"`
	ProfanityFilter        bool    `toml:"profanity_filter"`
}

// Transcoder contains settings for the external transcoder tool.
type Transcoder struct {
	FFmpegBinary   string `toml:"ffmpeg_binary"`
	FFprobeBinary  string `toml:"ffprobe_binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Listen contains settings for live microphone capture.
type Listen struct {
	InputFormat    string `toml:"input_format"`
	Device         string `toml:"device"`
	SegmentSeconds int    `toml:"segment_seconds"`
	QueueSize      int    `toml:"queue_size"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for voxscribe.
//
// Configuration sections by subsystem:
//   - Paths: temp, log and lock directories
//   - Recognizer: language, energy calibration and speech backend
//   - Transcoder: ffmpeg/ffprobe binaries and timeout
//   - Listen: live capture device and segmenting
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Recognizer Recognizer `toml:"recognizer"`
	Transcoder Transcoder `toml:"transcoder"`
	Listen     Listen     `toml:"listen"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("voxscribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// UsesDefaultEndpoint reports whether requests go to the public Google speech
// endpoint, which needs an API key.
func (r Recognizer) UsesDefaultEndpoint() bool {
	return strings.TrimRight(strings.TrimSpace(r.BaseURL), "/") == defaultSpeechBaseURL
}

// EnsureDirectories creates the directories voxscribe writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.TempDir, c.Paths.LogDir, c.Paths.LockDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TranscoderTimeout returns the bound applied to a single transcoder run.
func (c *Config) TranscoderTimeout() time.Duration {
	return time.Duration(c.Transcoder.TimeoutSeconds) * time.Second
}

// RecognizerTimeout returns the HTTP timeout for the single recognition request.
func (c *Config) RecognizerTimeout() time.Duration {
	return time.Duration(c.Recognizer.TimeoutSeconds) * time.Second
}

// AmbientDuration returns the ambient-noise calibration window.
func (c *Config) AmbientDuration() time.Duration {
	return time.Duration(c.Recognizer.AmbientDurationSeconds * float64(time.Second))
}

// SegmentDuration returns the live capture segment length.
func (c *Config) SegmentDuration() time.Duration {
	return time.Duration(c.Listen.SegmentSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
