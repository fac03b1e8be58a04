//go:build windows || linux || darwin

package hotkey

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.design/x/hotkey"

	"ztools-native/src/events"
)

var keyMap = map[string]hotkey.Key{
	"a": hotkey.KeyA, "b": hotkey.KeyB, "c": hotkey.KeyC, "d": hotkey.KeyD,
	"e": hotkey.KeyE, "f": hotkey.KeyF, "g": hotkey.KeyG, "h": hotkey.KeyH,
	"i": hotkey.KeyI, "j": hotkey.KeyJ, "k": hotkey.KeyK, "l": hotkey.KeyL,
	"m": hotkey.KeyM, "n": hotkey.KeyN, "o": hotkey.KeyO, "p": hotkey.KeyP,
	"q": hotkey.KeyQ, "r": hotkey.KeyR, "s": hotkey.KeyS, "t": hotkey.KeyT,
	"u": hotkey.KeyU, "v": hotkey.KeyV, "w": hotkey.KeyW, "x": hotkey.KeyX,
	"y": hotkey.KeyY, "z": hotkey.KeyZ,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"f1": hotkey.KeyF1, "f2": hotkey.KeyF2, "f3": hotkey.KeyF3, "f4": hotkey.KeyF4,
	"f5": hotkey.KeyF5, "f6": hotkey.KeyF6, "f7": hotkey.KeyF7, "f8": hotkey.KeyF8,
	"f9": hotkey.KeyF9, "f10": hotkey.KeyF10, "f11": hotkey.KeyF11, "f12": hotkey.KeyF12,

	"space":  hotkey.KeySpace,
	"tab":    hotkey.KeyTab,
	"enter":  hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"delete": hotkey.KeyDelete,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
}

// Listener is a registered global hotkey.
type Listener struct {
	combo Combo
	hk    *hotkey.Hotkey
	once  sync.Once
	done  chan struct{}
}

// Register parses combo, grabs it system-wide and calls fn on every key-down
// until Close. fn runs on the listener goroutine.
func Register(combo string, fn func()) (*Listener, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil hotkey callback", events.ErrInvalidArgument)
	}
	c, err := Parse(combo)
	if err != nil {
		return nil, err
	}
	mods, key, err := resolve(c)
	if err != nil {
		return nil, err
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return nil, fmt.Errorf("register hotkey %s: %w", c, err)
	}
	l := &Listener{combo: c, hk: hk, done: make(chan struct{})}
	go l.loop(fn)
	zap.S().Infof("hotkey: registered %s", c)
	return l, nil
}

func (l *Listener) loop(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorf("hotkey: callback panic: %v", r)
		}
	}()
	for {
		select {
		case <-l.done:
			return
		case _, ok := <-l.hk.Keydown():
			if !ok {
				return
			}
			zap.S().Debugf("hotkey: %s pressed", l.combo)
			fn()
		}
	}
}

// Combo returns the canonical combination the listener holds.
func (l *Listener) Combo() Combo { return l.combo }

func (l *Listener) Close() error {
	var err error
	l.once.Do(func() {
		close(l.done)
		err = l.hk.Unregister()
	})
	return err
}

func resolve(c Combo) ([]hotkey.Modifier, hotkey.Key, error) {
	key, ok := keyMap[c.Key]
	if !ok {
		return nil, 0, fmt.Errorf("%w: unsupported key %q", events.ErrInvalidArgument, c.Key)
	}
	mods := make([]hotkey.Modifier, 0, len(c.Mods))
	for _, m := range c.Mods {
		mod, ok := modifierMap[m]
		if !ok {
			return nil, 0, fmt.Errorf("%w: unsupported modifier %q", events.ErrInvalidArgument, m)
		}
		mods = append(mods, mod)
	}
	return mods, key, nil
}
