//go:build linux

package hotkey

import "golang.design/x/hotkey"

// On X11 Alt is usually Mod1 and Super is Mod4.
var modifierMap = map[string]hotkey.Modifier{
	ModCtrl:  hotkey.ModCtrl,
	ModShift: hotkey.ModShift,
	ModAlt:   hotkey.Mod1,
	ModSuper: hotkey.Mod4,
}
