// Package input synthesizes keyboard input: the paste chord and single key
// taps with modifiers.
package input

import (
	"go.uber.org/zap"

	"ztools-native/src/keymap"
)

// Stroke is one key transition.
type Stroke struct {
	Key  string
	Down bool
}

// Tap is a resolved key press with its modifiers in press order.
type Tap struct {
	Key  string
	Mods []string
}

// PlanTap resolves synthesis names into canonical ones. Repeated modifiers
// are collapsed.
func PlanTap(key string, mods ...string) (Tap, error) {
	k, err := keymap.ParseTapKey(key)
	if err != nil {
		return Tap{}, err
	}
	t := Tap{Key: k}
	seen := make(map[string]bool, len(mods))
	for _, m := range mods {
		name, err := keymap.ParseTapModifier(m)
		if err != nil {
			return Tap{}, err
		}
		if !seen[name] {
			seen[name] = true
			t.Mods = append(t.Mods, name)
		}
	}
	return t, nil
}

// Strokes expands the tap: modifiers down, key down, key up, then the
// modifiers up in reverse order.
func (t Tap) Strokes() []Stroke {
	out := make([]Stroke, 0, 2*len(t.Mods)+2)
	for _, m := range t.Mods {
		out = append(out, Stroke{Key: m, Down: true})
	}
	out = append(out, Stroke{Key: t.Key, Down: true}, Stroke{Key: t.Key, Down: false})
	for i := len(t.Mods) - 1; i >= 0; i-- {
		out = append(out, Stroke{Key: t.Mods[i], Down: false})
	}
	return out
}

// SimulatePaste sends the platform paste chord to the focused window.
func SimulatePaste() bool {
	ok := send(pasteTap())
	zap.S().Debugf("input: paste -> %v", ok)
	return ok
}

// SimulateKeyTap presses key with mods held. Unknown names give
// ErrUnknownKey and nothing is sent.
func SimulateKeyTap(key string, mods ...string) (bool, error) {
	t, err := PlanTap(key, mods...)
	if err != nil {
		return false, err
	}
	ok := send(t)
	zap.S().Debugf("input: tap %s %v -> %v", t.Key, t.Mods, ok)
	return ok, nil
}
