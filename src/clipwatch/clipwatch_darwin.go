//go:build darwin

package clipwatch

/*
#cgo darwin CFLAGS: -x objective-c -fobjc-arc
#cgo darwin LDFLAGS: -framework Cocoa
#import <Cocoa/Cocoa.h>

static long clipwatchChangeCount(void) {
	@autoreleasepool {
		return (long)[[NSPasteboard generalPasteboard] changeCount];
	}
}
*/
import "C"

import (
	"sync"
	"time"

	"ztools-native/src/events"
	"ztools-native/src/monitor"
)

// pollBackend compares NSPasteboard's change counter on a timer.
type pollBackend struct {
	interval time.Duration
	emit     func(events.Event)
	last     C.long

	wake     chan struct{}
	wakeOnce sync.Once
}

func newBackend() monitor.Backend {
	return &pollBackend{interval: currentPollInterval(), wake: make(chan struct{})}
}

func (b *pollBackend) Open(emit func(events.Event)) error {
	b.emit = emit
	b.last = C.clipwatchChangeCount()
	return nil
}

func (b *pollBackend) Run() {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-b.wake:
			return
		case <-ticker.C:
			if n := C.clipwatchChangeCount(); n != b.last {
				b.last = n
				b.emit(events.ClipboardChanged{})
			}
		}
	}
}

func (b *pollBackend) Wake() {
	b.wakeOnce.Do(func() { close(b.wake) })
}

func (b *pollBackend) Close() {}
