// Package hotkey parses "Ctrl+Shift+A" style combinations and registers them
// as global hotkeys.
package hotkey

import (
	"fmt"
	"strings"

	"ztools-native/src/events"
)

// Canonical modifier tokens, in display order.
const (
	ModCtrl  = "ctrl"
	ModShift = "shift"
	ModAlt   = "alt"
	ModSuper = "super"
)

var modOrder = []string{ModCtrl, ModShift, ModAlt, ModSuper}

var modAliases = map[string]string{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"super":   ModSuper,
	"win":     ModSuper,
	"cmd":     ModSuper,
	"command": ModSuper,
	"meta":    ModSuper,
}

var keyAliases = map[string]string{
	"return": "enter",
	"esc":    "escape",
	"del":    "delete",
}

// Combo is a parsed hotkey: a set of modifiers plus exactly one key.
type Combo struct {
	Mods []string
	Key  string
}

// Parse validates s and returns its canonical form. Modifiers may appear in
// any order and any case; duplicates collapse. The key must come last.
func Parse(s string) (Combo, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	if len(parts) == 0 || strings.TrimSpace(parts[len(parts)-1]) == "" {
		return Combo{}, fmt.Errorf("%w: hotkey %q has no key", events.ErrInvalidArgument, s)
	}

	seen := map[string]bool{}
	for _, p := range parts[:len(parts)-1] {
		m, ok := modAliases[strings.TrimSpace(p)]
		if !ok {
			return Combo{}, fmt.Errorf("%w: unsupported modifier %q in %q", events.ErrInvalidArgument, p, s)
		}
		seen[m] = true
	}
	if len(seen) == 0 {
		return Combo{}, fmt.Errorf("%w: hotkey %q needs at least one modifier", events.ErrInvalidArgument, s)
	}

	key := strings.TrimSpace(parts[len(parts)-1])
	if a, ok := keyAliases[key]; ok {
		key = a
	}
	if !supportedKey(key) {
		return Combo{}, fmt.Errorf("%w: unsupported key %q in %q", events.ErrInvalidArgument, key, s)
	}

	c := Combo{Key: key}
	for _, m := range modOrder {
		if seen[m] {
			c.Mods = append(c.Mods, m)
		}
	}
	return c, nil
}

func (c Combo) String() string {
	parts := make([]string, 0, len(c.Mods)+1)
	for _, m := range c.Mods {
		parts = append(parts, displayName(m))
	}
	return strings.Join(append(parts, displayName(c.Key)), "+")
}

func displayName(tok string) string {
	switch tok {
	case ModCtrl:
		return "Ctrl"
	}
	if len(tok) == 1 {
		return strings.ToUpper(tok)
	}
	return strings.ToUpper(tok[:1]) + tok[1:]
}

// supportedKey reports whether key is one of the names every platform
// backend can register.
func supportedKey(key string) bool {
	if len(key) == 1 {
		c := key[0]
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	switch key {
	case "space", "tab", "enter", "escape", "delete", "left", "right", "up", "down":
		return true
	}
	if key[0] == 'f' {
		var n int
		if _, err := fmt.Sscanf(key, "f%d", &n); err == nil && n >= 1 && n <= 12 && fmt.Sprintf("f%d", n) == key {
			return true
		}
	}
	return false
}
