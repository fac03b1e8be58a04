// Package keymap normalizes platform key codes into one canonical vocabulary
// and resolves the lowercase key names accepted by key synthesis.
//
// Each platform has its own input table; only the output names are shared.
package keymap

import (
	"fmt"
	"sort"
	"strings"

	"ztools-native/src/events"
)

// Unknown is returned for codes outside a platform table. Callers drop it.
const Unknown = ""

// Canonical names that are not single characters.
const (
	Enter     = "Enter"
	Tab       = "Tab"
	Space     = "Space"
	Backspace = "Backspace"
	Delete    = "Delete"
	Escape    = "Escape"
	CapsLock  = "CapsLock"
	Fn        = "Fn"
	Up        = "Up"
	Down      = "Down"
	Left      = "Left"
	Right     = "Right"
	Home      = "Home"
	End       = "End"
	PageUp    = "PageUp"
	PageDown  = "PageDown"
	Insert    = "Insert"

	Shift        = "Shift"
	RightShift   = "Right Shift"
	Control      = "Control"
	RightControl = "Right Control"
	Alt          = "Alt"
	RightAlt     = "Right Alt"
	Meta         = "Meta"
	RightMeta    = "Right Meta"
)

// Class is the modifier family a key belongs to.
type Class int

const (
	ClassNone Class = iota
	ClassShift
	ClassCtrl
	ClassAlt
	ClassMeta
)

var modifierClass = map[string]Class{
	Shift:        ClassShift,
	RightShift:   ClassShift,
	Control:      ClassCtrl,
	RightControl: ClassCtrl,
	Alt:          ClassAlt,
	RightAlt:     ClassAlt,
	Meta:         ClassMeta,
	RightMeta:    ClassMeta,
}

// IsModifier reports whether name is one of the eight modifier names.
func IsModifier(name string) bool {
	_, ok := modifierClass[name]
	return ok
}

// ModifierClass returns the family of a modifier name, or ClassNone.
func ModifierClass(name string) Class {
	return modifierClass[name]
}

// Clear drops the flag for class c from m.
func (c Class) Clear(m events.Modifiers) events.Modifiers {
	switch c {
	case ClassShift:
		m.Shift = false
	case ClassCtrl:
		m.Ctrl = false
	case ClassAlt:
		m.Alt = false
	case ClassMeta:
		m.Meta = false
	}
	return m
}

// Set raises the flag for class c in m.
func (c Class) Set(m events.Modifiers) events.Modifiers {
	switch c {
	case ClassShift:
		m.Shift = true
	case ClassCtrl:
		m.Ctrl = true
	case ClassAlt:
		m.Alt = true
	case ClassMeta:
		m.Meta = true
	}
	return m
}

var vocabulary = buildVocabulary()

func buildVocabulary() map[string]struct{} {
	v := map[string]struct{}{}
	for c := 'A'; c <= 'Z'; c++ {
		v[string(c)] = struct{}{}
	}
	for c := '0'; c <= '9'; c++ {
		v[string(c)] = struct{}{}
	}
	for i := 1; i <= 12; i++ {
		v[fmt.Sprintf("F%d", i)] = struct{}{}
	}
	for _, n := range []string{
		Enter, Tab, Space, Backspace, Delete, Escape, CapsLock, Fn,
		Up, Down, Left, Right, Home, End, PageUp, PageDown, Insert,
		"`", "-", "=", "[", "]", "\\", ";", "'", ",", ".", "/",
	} {
		v[n] = struct{}{}
	}
	for n := range modifierClass {
		v[n] = struct{}{}
	}
	return v
}

// InVocabulary reports whether name is a canonical key name.
func InVocabulary(name string) bool {
	_, ok := vocabulary[name]
	return ok
}

// Vocabulary returns every canonical name, sorted.
func Vocabulary() []string {
	out := make([]string, 0, len(vocabulary))
	for n := range vocabulary {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

var tapAliases = map[string]string{
	"return":       Enter,
	"enter":        Enter,
	"tab":          Tab,
	"space":        Space,
	"backspace":    Backspace,
	"delete":       Delete,
	"del":          Delete,
	"escape":       Escape,
	"esc":          Escape,
	"capslock":     CapsLock,
	"up":           Up,
	"down":         Down,
	"left":         Left,
	"right":        Right,
	"home":         Home,
	"end":          End,
	"pageup":       PageUp,
	"pagedown":     PageDown,
	"insert":       Insert,
	"minus":        "-",
	"equal":        "=",
	"leftbracket":  "[",
	"rightbracket": "]",
	"backslash":    "\\",
	"semicolon":    ";",
	"quote":        "'",
	"comma":        ",",
	"period":       ".",
	"slash":        "/",
	"grave":        "`",
}

// ParseTapKey resolves a synthesis key name ("a", "f5", "return", "-",
// "minus") into its canonical name.
func ParseTapKey(key string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return Unknown, fmt.Errorf("%w: key must be a non-empty string", events.ErrInvalidArgument)
	}
	if n, ok := tapAliases[k]; ok {
		return n, nil
	}
	if len(k) == 1 {
		c := k[0]
		switch {
		case c >= 'a' && c <= 'z':
			return strings.ToUpper(k), nil
		case c >= '0' && c <= '9':
			return k, nil
		}
		if InVocabulary(k) {
			return k, nil
		}
	}
	if k[0] == 'f' && len(k) <= 3 {
		if n := strings.ToUpper(k); InVocabulary(n) {
			return n, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", events.ErrUnknownKey, key)
}

// ParseTapModifier resolves a synthesis modifier name into its left-side
// canonical name.
func ParseTapModifier(mod string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mod)) {
	case "shift":
		return Shift, nil
	case "ctrl", "control":
		return Control, nil
	case "alt", "option", "opt":
		return Alt, nil
	case "meta", "cmd", "command", "win", "windows", "super":
		return Meta, nil
	}
	return Unknown, fmt.Errorf("%w: modifier %q", events.ErrUnknownKey, mod)
}

// invert builds a name->code table. When several codes share a name the
// lowest code wins, which keeps the result deterministic.
func invert[K ~uint16 | ~uint32](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for code, name := range m {
		if prev, dup := out[name]; !dup || code < prev {
			out[name] = code
		}
	}
	return out
}
