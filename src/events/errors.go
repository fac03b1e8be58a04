package events

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrPermissionDenied is returned when the OS has not granted input
	// monitoring (accessibility) consent.
	ErrPermissionDenied = errors.New("permission denied: accessibility access is not granted")
	// ErrAlreadyRunning is returned by a second start of the same monitor kind.
	ErrAlreadyRunning = errors.New("monitor is already running")
	// ErrAlreadyCapturing is returned when a region capture is already in progress.
	ErrAlreadyCapturing = errors.New("screenshot already in progress")
	// ErrSubscriptionFailed is returned when the OS refused the hook or listener.
	ErrSubscriptionFailed = errors.New("OS subscription failed")
	ErrClipboardBusy      = errors.New("clipboard is busy")
	ErrUnknownKey         = errors.New("unknown key")
	ErrLookupFailed       = errors.New("lookup failed")
	ErrUnsupported        = errors.New("not supported on this platform")
	ErrInvalidArgument    = errors.New("invalid argument")
)

// ParseEffect accepts 1|2|3 or mouse|keyboard|both.
func ParseEffect(s string) (Effect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mouse":
		return EffectMouse, nil
	case "keyboard", "key", "keys":
		return EffectKeyboard, nil
	case "both", "all":
		return EffectBoth, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !Effect(n).Valid() {
		return 0, fmt.Errorf("%w: effect must be 1 (mouse), 2 (keyboard) or 3 (both), got %q", ErrInvalidArgument, s)
	}
	return Effect(n), nil
}
