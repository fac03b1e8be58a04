// Package clipfiles reads and writes the clipboard's file list.
package clipfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"ztools-native/src/events"
	"ztools-native/src/logutil"
)

const (
	DefaultAttempts = 5
	DefaultDelay    = 50 * time.Millisecond
)

// File is one entry of the clipboard file list.
type File struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	IsDirectory bool   `json:"isDirectory"`
}

// Config bounds how long a clipboard open is retried.
type Config struct {
	Attempts int
	Delay    time.Duration
}

func (c Config) withDefaults() Config {
	if c.Attempts <= 0 {
		c.Attempts = DefaultAttempts
	}
	if c.Delay <= 0 {
		c.Delay = DefaultDelay
	}
	return c
}

var (
	cfgMu sync.Mutex
	cfg   = Config{}.withDefaults()
)

// Configure sets the retry policy used by Get and Set.
func Configure(c Config) {
	cfgMu.Lock()
	cfg = c.withDefaults()
	cfgMu.Unlock()
}

func current() Config {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	return cfg
}

// Retry calls fn up to attempts times, sleeping delay between failures,
// and reports whether any call succeeded.
func Retry(attempts int, delay time.Duration, fn func() bool) bool {
	for i := 0; i < attempts; i++ {
		if fn() {
			return true
		}
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}
	return false
}

// Open acquires the clipboard with the configured retry policy.
func Open(c Config) bool {
	c = c.withDefaults()
	return Retry(c.Attempts, c.Delay, openClipboard)
}

// Get returns the files on the clipboard. It returns an empty slice when
// there are none or the clipboard stays busy.
func Get() []File {
	paths, err := readPaths(current())
	if err != nil {
		zap.S().Debugf("clipfiles: read: %v", err)
		return []File{}
	}
	out := make([]File, 0, len(paths))
	for _, p := range paths {
		out = append(out, describe(p))
	}
	return out
}

// Set replaces the clipboard content with paths, keeping their order.
func Set(paths []string) (bool, error) {
	clean := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}
	if len(clean) == 0 {
		return false, fmt.Errorf("%w: no valid file paths provided", events.ErrInvalidArgument)
	}
	if err := writePaths(current(), clean); err != nil {
		return false, err
	}
	zap.S().Debugf("clipfiles: set %d file(s), first %s", len(clean), logutil.RedactPath(clean[0]))
	return true, nil
}

func describe(p string) File {
	f := File{Path: p, Name: baseName(p)}
	if fi, err := os.Stat(p); err == nil {
		f.IsDirectory = fi.IsDir()
	}
	return f
}

// baseName splits on both separators so Windows paths read correctly
// everywhere.
func baseName(p string) string {
	if i := strings.LastIndexAny(p, `\/`); i >= 0 {
		return p[i+1:]
	}
	return filepath.Base(p)
}
