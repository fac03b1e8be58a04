// Package runtimeinit is the shared startup path of the CLI and the agent.
package runtimeinit

import (
	"fmt"

	"go.uber.org/zap"

	"ztools-native/src/bridge"
	"ztools-native/src/clipboard"
	"ztools-native/src/config"
	"ztools-native/src/logutil"
	"ztools-native/src/notification"
)

type Options struct {
	LoadOptions config.LoadOptions
	// Console logs to stderr even when file logging is off.
	Console bool
	// LogLevel overrides the configured level when set.
	LogLevel string
	// SkipClipboard leaves the clipboard uninitialized, for commands that
	// never touch it.
	SkipClipboard bool
}

// Bootstrap loads configuration, sets up logging, initializes the clipboard
// and returns a configured Bridge.
func Bootstrap(opts Options) (*bridge.Bridge, error) {
	cfg, err := config.LoadWithOptions(opts.LoadOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := cfg.LogLevel
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	if _, err := logutil.Setup(logutil.Options{
		Level:   level,
		File:    cfg.EnableFileLogging,
		Console: opts.Console,
	}); err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	if cfg.EnvPath != "" {
		zap.S().Debugf("config: loaded %s", logutil.RedactPath(cfg.EnvPath))
	}
	if cfg.ConfigFile != "" {
		zap.S().Debugf("config: loaded %s", logutil.RedactPath(cfg.ConfigFile))
	}

	notification.SetEnabled(cfg.Notify)

	if !opts.SkipClipboard {
		if err := clipboard.Init(); err != nil {
			return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
		}
	}

	return bridge.New(cfg), nil
}
