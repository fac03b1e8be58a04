//go:build darwin

package input

/*
#cgo darwin LDFLAGS: -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>

static int inputPostKey(CGKeyCode code, bool down, CGEventFlags flags) {
	CGEventRef ev = CGEventCreateKeyboardEvent(NULL, code, down);
	if (ev == NULL) {
		return 0;
	}
	CGEventSetFlags(ev, flags);
	CGEventPost(kCGHIDEventTap, ev);
	CFRelease(ev);
	return 1;
}
*/
import "C"

import (
	"time"

	"ztools-native/src/keymap"
)

// Delay between posted events so the target sees discrete transitions.
const strokeGap = 10 * time.Millisecond

var modifierFlags = map[string]C.CGEventFlags{
	keymap.Shift:   C.kCGEventFlagMaskShift,
	keymap.Control: C.kCGEventFlagMaskControl,
	keymap.Alt:     C.kCGEventFlagMaskAlternate,
	keymap.Meta:    C.kCGEventFlagMaskCommand,
}

func pasteTap() Tap {
	return Tap{Key: "V", Mods: []string{keymap.Meta}}
}

func send(t Tap) bool {
	var flags C.CGEventFlags
	for _, s := range t.Strokes() {
		code, ok := keymap.DarwinCode(s.Key)
		if !ok {
			return false
		}
		if f, isMod := modifierFlags[s.Key]; isMod && s.Down {
			flags |= f
		}
		if C.inputPostKey(C.CGKeyCode(code), C.bool(s.Down), flags) == 0 {
			return false
		}
		if f, isMod := modifierFlags[s.Key]; isMod && !s.Down {
			flags &^= f
		}
		time.Sleep(strokeGap)
	}
	return true
}
