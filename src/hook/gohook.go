package hook

import (
	"fmt"
	"sync"

	gohook "github.com/robotn/gohook"
	"go.uber.org/zap"

	"ztools-native/src/events"
	"ztools-native/src/keymap"
)

// uiohook button numbers
const (
	uiohookButtonLeft  = 1
	uiohookButtonRight = 2
)

// gohookBackend drives libuiohook through gohook's event channel.
type gohookBackend struct {
	effect  events.Effect
	tracker *Tracker
	emit    func(events.Event)
	evChan  chan gohook.Event

	wake     chan struct{}
	wakeOnce sync.Once
}

func newGohookBackend(effect events.Effect) *gohookBackend {
	return &gohookBackend{
		effect:  effect,
		tracker: NewTracker(),
		wake:    make(chan struct{}),
	}
}

func (b *gohookBackend) Open(emit func(events.Event)) error {
	b.emit = emit
	b.evChan = gohook.Start()
	if b.evChan == nil {
		return fmt.Errorf("%w: gohook.Start() returned nil channel", events.ErrSubscriptionFailed)
	}
	return nil
}

func (b *gohookBackend) Run() {
	for {
		select {
		case <-b.wake:
			return
		case ev, ok := <-b.evChan:
			if !ok {
				zap.S().Debugf("hook: gohook channel closed")
				return
			}
			if out, ok := b.translate(ev); ok {
				b.emit(out)
			}
		}
	}
}

func (b *gohookBackend) Wake() {
	b.wakeOnce.Do(func() { close(b.wake) })
}

func (b *gohookBackend) Close() {
	gohook.End()
	b.tracker.Reset()
}

func (b *gohookBackend) translate(ev gohook.Event) (events.Event, bool) {
	switch ev.Kind {
	case gohook.KeyHold, gohook.KeyUp:
		if !b.effect.Keyboard() {
			return nil, false
		}
		name := keymap.FromUIOhook(ev.Keycode)
		down := ev.Kind == gohook.KeyHold
		held := b.tracker.Apply(name, down)
		ka, ok := TranslateKey(RawKey{Key: name, Down: down, Held: held})
		return ka, ok
	case gohook.MouseHold, gohook.MouseDown:
		if !b.effect.Mouse() {
			return nil, false
		}
		var button MouseButton
		switch ev.Button {
		case uiohookButtonLeft:
			button = ButtonLeft
		case uiohookButtonRight:
			button = ButtonRight
		default:
			return nil, false
		}
		// gohook reports a press as MouseHold and a release as MouseDown.
		ma, ok := TranslateMouse(button, ev.Kind == gohook.MouseHold, int(ev.X), int(ev.Y))
		return ma, ok
	}
	return nil, false
}
