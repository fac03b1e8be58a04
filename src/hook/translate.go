package hook

import (
	"ztools-native/src/events"
	"ztools-native/src/keymap"
)

// RawKey is a key transition as a backend observed it, already mapped to a
// canonical name.
type RawKey struct {
	Key  string
	Down bool
	// Held is the modifier state after the transition was applied.
	Held events.Modifiers
}

// TranslateKey turns a raw transition into the KeyAction forwarded to the
// listener. It reports false when the transition must be dropped: unknown
// keys, and releases of anything that is not a modifier.
//
// The modifier flags describe the other held modifiers. The whole class of
// the subject key is cleared, so pressing Right Shift while Left Shift is
// held still reports shift=false.
func TranslateKey(raw RawKey) (events.KeyAction, bool) {
	if raw.Key == keymap.Unknown {
		return events.KeyAction{}, false
	}
	class := keymap.ModifierClass(raw.Key)
	if !raw.Down && class == keymap.ClassNone {
		return events.KeyAction{}, false
	}
	held := class.Clear(raw.Held)
	return events.KeyAction{
		Key:         raw.Key,
		Shift:       held.Shift,
		Ctrl:        held.Ctrl,
		Alt:         held.Alt,
		Meta:        held.Meta,
		FlagsChange: class != keymap.ClassNone,
	}, true
}

// MouseButton is the platform-neutral button identity used by backends.
type MouseButton int

const (
	ButtonLeft MouseButton = iota + 1
	ButtonRight
)

// TranslateMouse maps a button transition to its canonical code. Buttons
// other than left and right are dropped.
func TranslateMouse(button MouseButton, down bool, x, y int) (events.MouseAction, bool) {
	var code events.MouseCode
	switch {
	case button == ButtonLeft && down:
		code = events.MouseLeftDown
	case button == ButtonLeft:
		code = events.MouseLeftUp
	case button == ButtonRight && down:
		code = events.MouseRightDown
	case button == ButtonRight:
		code = events.MouseRightUp
	default:
		return events.MouseAction{}, false
	}
	return events.MouseAction{Code: code, X: x, Y: y}, true
}
