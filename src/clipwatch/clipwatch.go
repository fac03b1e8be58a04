// Package clipwatch notifies a listener whenever the system clipboard
// content changes.
package clipwatch

import (
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"ztools-native/src/events"
	"ztools-native/src/monitor"
)

// DefaultPollInterval is used by backends that have no change notification.
const DefaultPollInterval = 500 * time.Millisecond

var pollInterval atomic.Int64

func init() {
	pollInterval.Store(int64(DefaultPollInterval))
}

// SetPollInterval changes the interval for monitors started afterwards.
// Non-positive values restore the default.
func SetPollInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultPollInterval
	}
	pollInterval.Store(int64(d))
}

func currentPollInterval() time.Duration {
	return time.Duration(pollInterval.Load())
}

// Start begins watching the clipboard. listener runs on the delivery
// goroutine, once per observed change.
func Start(listener func()) error {
	if listener == nil {
		return fmt.Errorf("%w: listener is required", events.ErrInvalidArgument)
	}
	tok, err := monitor.Default().Start(monitor.Clipboard, newBackend(), func(ev events.Event) {
		if _, ok := ev.(events.ClipboardChanged); ok {
			listener()
		}
	})
	if err != nil {
		return err
	}
	zap.S().Debugf("clipwatch: started token=%s", tok)
	return nil
}

// Stop ends the watch. It does nothing when no watch is running.
func Stop() error {
	return monitor.Default().Stop(monitor.Clipboard)
}

// Running reports whether a watch is active.
func Running() bool {
	return monitor.Default().State(monitor.Clipboard) == monitor.Running
}
