//go:build !windows && !darwin

package clipwatch

import (
	"context"

	"ztools-native/src/clipboard"
	"ztools-native/src/events"
	"ztools-native/src/monitor"
)

// watchBackend relies on the clipboard library's own change feed.
type watchBackend struct {
	ctx     context.Context
	cancel  context.CancelFunc
	changes <-chan struct{}
	emit    func(events.Event)
}

func newBackend() monitor.Backend {
	ctx, cancel := context.WithCancel(context.Background())
	return &watchBackend{ctx: ctx, cancel: cancel}
}

func (b *watchBackend) Open(emit func(events.Event)) error {
	b.emit = emit
	changes, err := clipboard.Watch(b.ctx)
	if err != nil {
		return err
	}
	b.changes = changes
	return nil
}

func (b *watchBackend) Run() {
	for range b.changes {
		b.emit(events.ClipboardChanged{})
	}
}

func (b *watchBackend) Wake() {
	b.cancel()
}

func (b *watchBackend) Close() {
	b.cancel()
}
