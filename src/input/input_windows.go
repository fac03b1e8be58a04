//go:build windows

package input

import (
	"unsafe"

	"github.com/lxn/win"

	"ztools-native/src/keymap"
)

// Keys that live on the extended part of the keyboard.
var extendedKeys = map[string]bool{
	keymap.Up: true, keymap.Down: true, keymap.Left: true, keymap.Right: true,
	keymap.Home: true, keymap.End: true, keymap.PageUp: true, keymap.PageDown: true,
	keymap.Insert: true, keymap.Delete: true,
	keymap.RightControl: true, keymap.RightAlt: true,
	keymap.Meta: true, keymap.RightMeta: true,
}

func pasteTap() Tap {
	return Tap{Key: "V", Mods: []string{keymap.Control}}
}

func send(t Tap) bool {
	strokes := t.Strokes()
	inputs := make([]win.KEYBD_INPUT, 0, len(strokes))
	for _, s := range strokes {
		vk, ok := keymap.WindowsVK(s.Key)
		if !ok {
			return false
		}
		var flags uint32
		if !s.Down {
			flags |= win.KEYEVENTF_KEYUP
		}
		if extendedKeys[s.Key] {
			flags |= win.KEYEVENTF_EXTENDEDKEY
		}
		inputs = append(inputs, win.KEYBD_INPUT{
			Type: win.INPUT_KEYBOARD,
			Ki:   win.KEYBDINPUT{WVk: uint16(vk), DwFlags: flags},
		})
	}
	sent := win.SendInput(uint32(len(inputs)), unsafe.Pointer(&inputs[0]), int32(unsafe.Sizeof(inputs[0])))
	return int(sent) == len(inputs)
}
