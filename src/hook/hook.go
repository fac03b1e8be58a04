// Package hook installs global mouse and keyboard hooks and forwards the
// qualifying transitions as canonical events.
package hook

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"ztools-native/src/events"
	"ztools-native/src/monitor"
)

type backend = monitor.Backend

const (
	BackendNative = "native"
	BackendGohook = "gohook"
)

var (
	backendMu   sync.Mutex
	backendName = BackendNative
)

// UseBackend selects the hook implementation for later starts. "gohook"
// forces the libuiohook backend on every platform.
func UseBackend(name string) {
	backendMu.Lock()
	defer backendMu.Unlock()
	if strings.EqualFold(strings.TrimSpace(name), BackendGohook) {
		backendName = BackendGohook
	} else {
		backendName = BackendNative
	}
}

func newBackend(effect events.Effect) (backend, error) {
	backendMu.Lock()
	name := backendName
	backendMu.Unlock()
	if name == BackendGohook {
		return newGohookBackend(effect), nil
	}
	return newNativeBackend(effect)
}

// Start installs the hooks selected by effect. listener receives
// events.MouseAction and events.KeyAction values.
func Start(effect events.Effect, listener func(events.Event)) error {
	if !effect.Valid() {
		return fmt.Errorf("%w: effect %d", events.ErrInvalidArgument, effect)
	}
	b, err := newBackend(effect)
	if err != nil {
		return err
	}
	tok, err := monitor.Default().Start(monitor.InputHook, b, listener)
	if err != nil {
		return err
	}
	zap.S().Debugf("hook: installed effect=%d token=%s", effect, tok)
	return nil
}

// Stop removes the hooks. Calling it when no hook is installed does nothing.
func Stop() error {
	return monitor.Default().Stop(monitor.InputHook)
}

// Running reports whether a hook is installed.
func Running() bool {
	return monitor.Default().State(monitor.InputHook) == monitor.Running
}
