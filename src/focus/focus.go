// Package focus reports foreground window changes and exposes the active
// window lookup and activation used by the bridge.
package focus

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"ztools-native/src/events"
	"ztools-native/src/monitor"
)

// DefaultPollInterval is used by platforms without a focus notification.
const DefaultPollInterval = 500 * time.Millisecond

var pollInterval atomic.Int64

func init() {
	pollInterval.Store(int64(DefaultPollInterval))
}

// SetPollInterval changes the interval for monitors started afterwards.
func SetPollInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultPollInterval
	}
	pollInterval.Store(int64(d))
}

func currentPollInterval() time.Duration {
	return time.Duration(pollInterval.Load())
}

// Start watches foreground changes. listener receives one descriptor for the
// window that is active at start, then one per change.
func Start(listener func(events.WindowDescriptor)) error {
	if listener == nil {
		return fmt.Errorf("%w: listener is required", events.ErrInvalidArgument)
	}
	b, err := newBackend()
	if err != nil {
		return err
	}
	tok, err := monitor.Default().Start(monitor.WindowFocus, b, func(ev events.Event) {
		if fc, ok := ev.(events.WindowFocusChanged); ok {
			listener(fc.Window)
		}
	})
	if err != nil {
		return err
	}
	zap.S().Debugf("focus: started token=%s", tok)
	return nil
}

// Stop ends the watch. It does nothing when no watch is running.
func Stop() error {
	return monitor.Default().Stop(monitor.WindowFocus)
}

// Running reports whether a watch is active.
func Running() bool {
	return monitor.Default().State(monitor.WindowFocus) == monitor.Running
}

// Active describes the current foreground window. It returns nil and
// ErrLookupFailed when there is none.
func Active() (*events.WindowDescriptor, error) {
	return active()
}

// Activate brings a window of the identified application to the
// foreground. The identifier is a process id, or on macOS and X11 also a
// bundle id or window class. It reports whether the window became active.
func Activate(identifier string) (bool, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return false, fmt.Errorf("%w: empty window identifier", events.ErrInvalidArgument)
	}
	ok, err := activate(identifier)
	zap.S().Debugf("focus: activate %q -> %v (err=%v)", identifier, ok, err)
	return ok, err
}

// parsePID accepts a positive decimal process id.
func parsePID(identifier string) (int, bool) {
	pid, err := strconv.Atoi(identifier)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// appNameFromPath returns the executable base name without its extension.
func appNameFromPath(p string) string {
	base := filepath.Base(strings.ReplaceAll(p, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// changeFilter suppresses repeated notifications for the same window.
type changeFilter struct {
	last string
	seen bool
}

func (f *changeFilter) changed(key string) bool {
	if f.seen && key == f.last {
		return false
	}
	f.last, f.seen = key, true
	return true
}

func descriptorKey(d *events.WindowDescriptor) string {
	return strconv.Itoa(d.ProcessID) + "\x00" + d.BundleID + "\x00" + d.Title
}
