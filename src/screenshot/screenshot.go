// Package screenshot samples screen pixels in virtual-screen coordinates.
package screenshot

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Displays returns the bounds of every active display.
func Displays() []image.Rectangle {
	n := screenshot.NumActiveDisplays()
	out := make([]image.Rectangle, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, screenshot.GetDisplayBounds(i))
	}
	return out
}

// VirtualBounds is the union of all active displays.
func VirtualBounds() (image.Rectangle, error) {
	return union(Displays())
}

func union(displays []image.Rectangle) (image.Rectangle, error) {
	if len(displays) == 0 {
		return image.Rectangle{}, fmt.Errorf("no active displays found")
	}
	u := displays[0]
	for _, b := range displays[1:] {
		u = u.Union(b)
	}
	return u, nil
}

// Capture captures the entire virtual screen across all active displays
func Capture() (*image.RGBA, error) {
	bounds, err := VirtualBounds()
	if err != nil {
		return nil, err
	}
	return screenshot.CaptureRect(bounds)
}

// CaptureRect samples r, clipped to the virtual screen. The returned image
// has its origin at (0,0).
func CaptureRect(r image.Rectangle) (*image.RGBA, error) {
	bounds, err := VirtualBounds()
	if err != nil {
		return nil, err
	}
	clipped, err := clip(r, bounds)
	if err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureRect(clipped)
	if err != nil {
		return nil, fmt.Errorf("failed to capture region: %w", err)
	}
	return img, nil
}

func clip(r, bounds image.Rectangle) (image.Rectangle, error) {
	r = r.Canon()
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("invalid region dimensions: width=%d, height=%d", r.Dx(), r.Dy())
	}
	c := r.Intersect(bounds)
	if c.Empty() {
		return image.Rectangle{}, fmt.Errorf("region %v lies outside the screen %v", r, bounds)
	}
	return c, nil
}
