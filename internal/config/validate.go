package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRecognizer(); err != nil {
		return err
	}
	if err := c.validateListen(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRecognizer() error {
	if c.Recognizer.EnergyThreshold < 0 {
		return errors.New("recognizer.energy_threshold must be non-negative")
	}
	if c.Recognizer.AmbientDurationSeconds < 0 {
		return errors.New("recognizer.ambient_duration_seconds must be non-negative")
	}
	parsed, err := url.Parse(c.Recognizer.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("recognizer.base_url must be an absolute URL, got %q", c.Recognizer.BaseURL)
	}
	return nil
}

func (c *Config) validateListen() error {
	if c.Listen.SegmentSeconds > 60 {
		return fmt.Errorf("listen.segment_seconds must be at most 60, got %d", c.Listen.SegmentSeconds)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
