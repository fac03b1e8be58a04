//go:build !windows

package capture

import (
	"image"

	"ztools-native/src/events"
)

func newPlatformSurface(image.Rectangle) (Surface, error) {
	return nil, events.ErrUnsupported
}

func prepareThread() {}
