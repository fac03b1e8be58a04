// Package logutil builds the process logger and a few log-safe formatters.
package logutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	LogFileName  = "ztools_native.log"
	maxSizeBytes = 10 * 1024 * 1024 // 10 MB
	maxArchives  = 3
)

type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File switches output to a rotated log file with JSON encoding.
	File bool
	// Dir holds the log file. Empty means the working directory.
	Dir string
	// Console writes console-encoded logs to stderr. Ignored when File is set.
	Console bool
}

// Setup installs the global zap logger. With neither File nor Console the
// logger discards everything.
func Setup(opts Options) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(opts.Level))); err != nil {
			return nil, fmt.Errorf("log level %q: %w", opts.Level, err)
		}
	}

	var logger *zap.Logger
	switch {
	case opts.File:
		w, err := openRotating(filepath.Join(opts.Dir, LogFileName))
		if err != nil {
			return nil, err
		}
		enc := zapcore.NewJSONEncoder(encoderConfig())
		core := zapcore.NewSamplerWithOptions(zapcore.NewCore(enc, w, level), 1e9, 100, 100)
		logger = zap.New(core, zap.AddCaller())
	case opts.Console:
		cfg := zap.Config{
			Level:            level,
			Encoding:         "console",
			EncoderConfig:    encoderConfig(),
			Sampling:         &zap.SamplingConfig{Initial: 100, Thereafter: 100},
			OutputPaths:      []string{"stderr"},
			ErrorOutputPaths: []string{"stderr"},
		}
		l, err := cfg.Build()
		if err != nil {
			return nil, err
		}
		logger = l
	default:
		logger = zap.New(zapcore.NewNopCore())
	}

	zap.ReplaceGlobals(logger)
	zap.RedirectStdLog(logger)
	return logger, nil
}

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	return ec
}

// rotatingWriter rotates the base file into .1 .. .3 once it would exceed
// maxSizeBytes. The oldest archive is discarded.
type rotatingWriter struct {
	mu   sync.Mutex
	path string
	f    *os.File
}

func openRotating(path string) (*rotatingWriter, error) {
	rotateIfNeeded(path, 0)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return &rotatingWriter{path: path, f: f}, nil
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if st, err := w.f.Stat(); err == nil && st.Size()+int64(len(p)) > maxSizeBytes {
		_ = w.f.Close()
		rotateIfNeeded(w.path, len(p))
		nf, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return 0, err
		}
		w.f = nf
	}
	return w.f.Write(p)
}

func (w *rotatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Sync()
}

func rotateIfNeeded(path string, incoming int) {
	st, err := os.Stat(path)
	if err != nil || st.Size()+int64(incoming) <= maxSizeBytes {
		return
	}
	_ = os.Remove(archiveName(path, maxArchives))
	for i := maxArchives - 1; i >= 1; i-- {
		_ = os.Rename(archiveName(path, i), archiveName(path, i+1))
	}
	_ = os.Rename(path, archiveName(path, 1))
}

func archiveName(path string, n int) string { return fmt.Sprintf("%s.%d", path, n) }

var homeDir = sync.OnceValue(func() string {
	h, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Clean(h)
})

// RedactPath shortens a path under the user's home directory to ~/...
func RedactPath(p string) string {
	return redactUnder(p, homeDir())
}

func redactUnder(p, home string) string {
	if home == "" || p == "" {
		return p
	}
	if p == home {
		return "~"
	}
	for _, sep := range []string{"/", `\`} {
		if strings.HasPrefix(p, home+sep) {
			return "~" + sep + p[len(home)+1:]
		}
	}
	return p
}
