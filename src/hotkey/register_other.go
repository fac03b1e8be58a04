//go:build !windows && !linux && !darwin

package hotkey

import (
	"fmt"

	"ztools-native/src/events"
)

type Listener struct{ combo Combo }

func Register(combo string, fn func()) (*Listener, error) {
	return nil, fmt.Errorf("%w: global hotkeys", events.ErrUnsupported)
}

func (l *Listener) Combo() Combo { return l.combo }

func (l *Listener) Close() error { return nil }
