//go:build !windows && !darwin && !linux

package focus

import (
	"ztools-native/src/events"
	"ztools-native/src/monitor"
)

func newBackend() (monitor.Backend, error) {
	return nil, events.ErrUnsupported
}

func active() (*events.WindowDescriptor, error) {
	return nil, events.ErrUnsupported
}

func activate(string) (bool, error) {
	return false, events.ErrUnsupported
}
