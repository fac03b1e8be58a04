package hook

import (
	"sync"

	"ztools-native/src/events"
	"ztools-native/src/keymap"
)

// Tracker keeps the set of physically held modifier keys, fed by the same
// transitions the hook forwards. Backends without a reliable post-event
// modifier query read state from here.
type Tracker struct {
	mu   sync.Mutex
	held map[string]bool
}

func NewTracker() *Tracker {
	return &Tracker{held: make(map[string]bool)}
}

// Apply records a transition of key and returns the resulting held state.
// Non-modifier keys leave the set unchanged.
func (t *Tracker) Apply(key string, down bool) events.Modifiers {
	t.mu.Lock()
	defer t.mu.Unlock()
	if keymap.IsModifier(key) {
		if down {
			t.held[key] = true
		} else {
			delete(t.held, key)
		}
	}
	return t.snapshot()
}

// Held returns the current state without applying anything.
func (t *Tracker) Held() events.Modifiers {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

// Reset forgets every held key, e.g. after the hook was reinstalled.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	clear(t.held)
}

func (t *Tracker) snapshot() events.Modifiers {
	var m events.Modifiers
	for k := range t.held {
		m = keymap.ModifierClass(k).Set(m)
	}
	return m
}
