package config

import (
	"fmt"
	"os"
	"strings"

	"voxscribe/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRecognizer(); err != nil {
		return err
	}
	c.normalizeTranscoder()
	c.normalizeListen()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = os.TempDir()
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockDir) == "" {
		c.Paths.LockDir = defaultLockDir
	}
	if c.Paths.LockDir, err = expandPath(c.Paths.LockDir); err != nil {
		return fmt.Errorf("paths.lock_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRecognizer() error {
	lang := strings.TrimSpace(c.Recognizer.Language)
	if lang == "" {
		lang = defaultLanguage
	}
	canonical, err := language.Canonical(lang)
	if err != nil {
		return fmt.Errorf("recognizer.language: %w", err)
	}
	c.Recognizer.Language = canonical

	c.Recognizer.APIKey = strings.TrimSpace(c.Recognizer.APIKey)
	if c.Recognizer.APIKey == "" {
		if value, ok := os.LookupEnv(SpeechAPIKeyEnv); ok {
			c.Recognizer.APIKey = strings.TrimSpace(value)
		}
	}
	c.Recognizer.BaseURL = strings.TrimSpace(c.Recognizer.BaseURL)
	if c.Recognizer.BaseURL == "" {
		c.Recognizer.BaseURL = defaultSpeechBaseURL
	}
	if c.Recognizer.TimeoutSeconds <= 0 {
		c.Recognizer.TimeoutSeconds = defaultRecognizerTimeout
	}
	return nil
}

func (c *Config) normalizeTranscoder() {
	c.Transcoder.FFmpegBinary = strings.TrimSpace(c.Transcoder.FFmpegBinary)
	if c.Transcoder.FFmpegBinary == "" {
		c.Transcoder.FFmpegBinary = defaultFFmpegBinary
	}
	c.Transcoder.FFprobeBinary = strings.TrimSpace(c.Transcoder.FFprobeBinary)
	if c.Transcoder.FFprobeBinary == "" {
		c.Transcoder.FFprobeBinary = defaultFFprobeBinary
	}
	if c.Transcoder.TimeoutSeconds <= 0 {
		c.Transcoder.TimeoutSeconds = defaultTranscoderTimeout
	}
}

func (c *Config) normalizeListen() {
	c.Listen.InputFormat = strings.TrimSpace(c.Listen.InputFormat)
	if c.Listen.InputFormat == "" {
		c.Listen.InputFormat = defaultListenInputFormat
	}
	c.Listen.Device = strings.TrimSpace(c.Listen.Device)
	if c.Listen.Device == "" {
		c.Listen.Device = defaultListenDevice
	}
	if c.Listen.SegmentSeconds <= 0 {
		c.Listen.SegmentSeconds = defaultListenSegmentSeconds
	}
	if c.Listen.QueueSize <= 0 {
		c.Listen.QueueSize = defaultListenQueueSize
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
