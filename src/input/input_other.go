//go:build !windows && !darwin

package input

import (
	"strings"

	"github.com/go-vgo/robotgo"
	"go.uber.org/zap"

	"ztools-native/src/keymap"
)

var robotgoNames = map[string]string{
	keymap.Enter:     "enter",
	keymap.Tab:       "tab",
	keymap.Space:     "space",
	keymap.Backspace: "backspace",
	keymap.Delete:    "delete",
	keymap.Escape:    "escape",
	keymap.CapsLock:  "capslock",
	keymap.Up:        "up",
	keymap.Down:      "down",
	keymap.Left:      "left",
	keymap.Right:     "right",
	keymap.Home:      "home",
	keymap.End:       "end",
	keymap.PageUp:    "pageup",
	keymap.PageDown:  "pagedown",
	keymap.Insert:    "insert",
	keymap.Shift:     "shift",
	keymap.Control:   "ctrl",
	keymap.Alt:       "alt",
	keymap.Meta:      "cmd",
}

func pasteTap() Tap {
	return Tap{Key: "V", Mods: []string{keymap.Control}}
}

func robotgoName(name string) string {
	if n, ok := robotgoNames[name]; ok {
		return n
	}
	return strings.ToLower(name)
}

func send(t Tap) bool {
	mods := make([]interface{}, 0, len(t.Mods))
	for _, m := range t.Mods {
		mods = append(mods, robotgoName(m))
	}
	if err := robotgo.KeyTap(robotgoName(t.Key), mods...); err != nil {
		zap.S().Debugf("input: robotgo.KeyTap(%s): %v", t.Key, err)
		return false
	}
	return true
}
