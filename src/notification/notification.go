// Package notification shows desktop toasts for agent results.
package notification

import (
	"fmt"
	"sync/atomic"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"

	"ztools-native/src/events"
)

const AppName = "ztools"

var (
	enabled atomic.Bool
	notify  = beeep.Notify
)

func init() { enabled.Store(true) }

// SetEnabled turns toasts on or off. Blocking errors are always shown.
func SetEnabled(on bool) { enabled.Store(on) }

// Show posts a toast without waiting for it. Failures are logged.
func Show(title, message string) {
	if !enabled.Load() {
		return
	}
	go func() {
		if err := notify(title, message, ""); err != nil {
			zap.S().Warnf("notification: %v", err)
		}
	}()
}

// ShowCaptureResult summarizes a finished capture.
func ShowCaptureResult(r events.CaptureResult) {
	title, msg := CaptureMessage(r)
	Show(title, msg)
}

// CaptureMessage renders the toast text for r.
func CaptureMessage(r events.CaptureResult) (title, message string) {
	if !r.Success {
		return AppName, "Capture cancelled"
	}
	return AppName, fmt.Sprintf("Copied %d×%d region to the clipboard", r.Width, r.Height)
}

// ShowError reports a failure that the user should see.
func ShowError(title string, err error) {
	Show(title, err.Error())
}

// ShowBlockingError raises an alert and logs the message as well.
func ShowBlockingError(title, message string) {
	zap.S().Errorf("%s: %s", title, message)
	if err := alert(title, message, ""); err != nil {
		zap.S().Warnf("notification: alert failed: %v", err)
	}
}
