//go:build !windows && !darwin

package hook

import "ztools-native/src/events"

func newNativeBackend(effect events.Effect) (backend, error) {
	return newGohookBackend(effect), nil
}
