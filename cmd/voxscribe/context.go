package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"voxscribe/internal/config"
	"voxscribe/internal/listen"
	"voxscribe/internal/logging"
	"voxscribe/internal/services"
	"voxscribe/internal/session"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	sessionOptions []session.Option
	capturer       listen.Capturer

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

type contextOption func(*commandContext)

// withSessionOptions injects session dependencies, used by tests to replace
// the transcoder and speech backend.
func withSessionOptions(opts ...session.Option) contextOption {
	return func(c *commandContext) {
		c.sessionOptions = append(c.sessionOptions, opts...)
	}
}

func withCapturer(capturer listen.Capturer) contextOption {
	return func(c *commandContext) {
		c.capturer = capturer
	}
}

func newCommandContext(configFlag, logLevelFlag *string, opts ...contextOption) *commandContext {
	c := &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if level := c.logLevelOverride(); level != "" {
			cfg.Logging.Level = level
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrPrecondition, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logLevelOverride() string {
	if c.logLevelFlag == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = services.Wrap(services.ErrConfiguration, "logging", "init", "", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
