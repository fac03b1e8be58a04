package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvPathEnvVar    = "ZTOOLS_NATIVE_ENV"
	ConfigFileEnvVar = "ZTOOLS_CONFIG_FILE"

	DispatchDrop      = "drop"
	DispatchOverwrite = "overwrite"
	HookNative        = "native"
	HookGohook        = "gohook"
)

type LoadOptions struct {
	// EnvPath replaces the .env lookup when set.
	EnvPath string
	// ConfigFile replaces ZTOOLS_CONFIG_FILE when set.
	ConfigFile string
}

type Config struct {
	StartTimeout      time.Duration
	StopTimeout       time.Duration
	ClipboardAttempts int
	ClipboardRetry    time.Duration
	CaptureSettle     time.Duration
	OverlayAlpha      uint8
	OverlayBorder     int
	PollInterval      time.Duration
	DispatchPolicy    string
	HookBackend       string
	CaptureHotkey     string
	EnableFileLogging bool
	LogLevel          string
	Notify            bool

	// Sources that were actually read, for diagnostics.
	EnvPath    string
	ConfigFile string
}

type setting struct {
	env  string
	yaml string
}

var (
	startTimeout      = setting{"ZTOOLS_START_TIMEOUT_MS", "start_timeout_ms"}
	stopTimeout       = setting{"ZTOOLS_STOP_TIMEOUT_MS", "stop_timeout_ms"}
	clipboardAttempts = setting{"ZTOOLS_CLIPBOARD_ATTEMPTS", "clipboard_attempts"}
	clipboardRetry    = setting{"ZTOOLS_CLIPBOARD_RETRY_MS", "clipboard_retry_ms"}
	captureSettle     = setting{"ZTOOLS_CAPTURE_SETTLE_MS", "capture_settle_ms"}
	overlayAlpha      = setting{"ZTOOLS_OVERLAY_ALPHA", "overlay_alpha"}
	overlayBorder     = setting{"ZTOOLS_OVERLAY_BORDER", "overlay_border"}
	pollInterval      = setting{"ZTOOLS_POLL_INTERVAL_MS", "poll_interval_ms"}
	dispatchPolicy    = setting{"ZTOOLS_DISPATCH_POLICY", "dispatch_policy"}
	hookBackend       = setting{"ZTOOLS_HOOK_BACKEND", "hook_backend"}
	captureHotkey     = setting{"ZTOOLS_CAPTURE_HOTKEY", "capture_hotkey"}
	enableFileLogging = setting{"ZTOOLS_ENABLE_FILE_LOGGING", "enable_file_logging"}
	logLevel          = setting{"ZTOOLS_LOG_LEVEL", "log_level"}
	notify            = setting{"ZTOOLS_NOTIFY", "notify"}
)

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		StartTimeout:      2 * time.Second,
		StopTimeout:       2 * time.Second,
		ClipboardAttempts: 5,
		ClipboardRetry:    50 * time.Millisecond,
		CaptureSettle:     100 * time.Millisecond,
		OverlayAlpha:      128,
		OverlayBorder:     2,
		PollInterval:      500 * time.Millisecond,
		DispatchPolicy:    DispatchDrop,
		HookBackend:       HookNative,
		CaptureHotkey:     "Ctrl+Shift+A",
		EnableFileLogging: false,
		LogLevel:          "info",
		Notify:            true,
	}
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions resolves every setting from, in priority order, the
// process environment (after the .env file is applied), the optional YAML
// file, and the defaults. A value that does not parse is skipped.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	envPath := strings.TrimSpace(opts.EnvPath)
	if envPath == "" {
		envPath = resolveEnvPath()
	}
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	configFile := strings.TrimSpace(opts.ConfigFile)
	if configFile == "" {
		configFile = strings.TrimSpace(os.Getenv(ConfigFileEnvVar))
	}
	file, err := readYAML(configFile)
	if err != nil {
		return nil, err
	}

	l := layers{file: file}
	d := Default()
	cfg := &Config{
		StartTimeout:      l.millis(startTimeout, d.StartTimeout),
		StopTimeout:       l.millis(stopTimeout, d.StopTimeout),
		ClipboardAttempts: l.integer(clipboardAttempts, d.ClipboardAttempts, 1, 100),
		ClipboardRetry:    l.millis(clipboardRetry, d.ClipboardRetry),
		CaptureSettle:     l.millis(captureSettle, d.CaptureSettle),
		OverlayAlpha:      uint8(l.integer(overlayAlpha, int(d.OverlayAlpha), 0, 255)),
		OverlayBorder:     l.integer(overlayBorder, d.OverlayBorder, 0, 64),
		PollInterval:      l.millis(pollInterval, d.PollInterval),
		DispatchPolicy:    l.choice(dispatchPolicy, d.DispatchPolicy, DispatchDrop, DispatchOverwrite),
		HookBackend:       l.choice(hookBackend, d.HookBackend, HookNative, HookGohook),
		CaptureHotkey:     l.text(captureHotkey, d.CaptureHotkey),
		EnableFileLogging: l.boolean(enableFileLogging, d.EnableFileLogging),
		LogLevel:          l.choice(logLevel, d.LogLevel, "debug", "info", "warn", "error"),
		Notify:            l.boolean(notify, d.Notify),
		EnvPath:           envPath,
	}
	if file != nil {
		cfg.ConfigFile = configFile
	}
	return cfg, nil
}

func resolveEnvPath() string {
	if execPath, err := os.Executable(); err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvPathEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func readYAML(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return out, nil
}

type layers struct {
	file map[string]any
}

// candidates lists the raw values for s, highest priority first.
func (l layers) candidates(s setting) []string {
	var out []string
	if v, ok := os.LookupEnv(s.env); ok && strings.TrimSpace(v) != "" {
		out = append(out, strings.TrimSpace(v))
	}
	if v, ok := l.file[s.yaml]; ok && v != nil {
		out = append(out, strings.TrimSpace(fmt.Sprint(v)))
	}
	return out
}

func (l layers) integer(s setting, def, min, max int) int {
	for _, raw := range l.candidates(s) {
		if n, err := strconv.Atoi(raw); err == nil && n >= min && n <= max {
			return n
		}
	}
	return def
}

func (l layers) millis(s setting, def time.Duration) time.Duration {
	for _, raw := range l.candidates(s) {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return def
}

func (l layers) boolean(s setting, def bool) bool {
	for _, raw := range l.candidates(s) {
		if b, err := strconv.ParseBool(strings.ToLower(raw)); err == nil {
			return b
		}
	}
	return def
}

func (l layers) choice(s setting, def string, allowed ...string) string {
	for _, raw := range l.candidates(s) {
		for _, a := range allowed {
			if strings.EqualFold(raw, a) {
				return a
			}
		}
	}
	return def
}

func (l layers) text(s setting, def string) string {
	if c := l.candidates(s); len(c) > 0 {
		return c[0]
	}
	return def
}
