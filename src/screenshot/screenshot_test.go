package screenshot

import (
	"image"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnion(t *testing.T) {
	_, err := union(nil)
	assert.Error(t, err)

	u, err := union([]image.Rectangle{
		image.Rect(0, 0, 1920, 1080),
		image.Rect(-1280, 100, 0, 1124),
	})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(-1280, 0, 1920, 1124), u)
}

func TestClip(t *testing.T) {
	screen := image.Rect(-1280, 0, 1920, 1080)
	tests := []struct {
		name    string
		in      image.Rectangle
		want    image.Rectangle
		wantErr bool
	}{
		{"inside", image.Rect(10, 10, 110, 60), image.Rect(10, 10, 110, 60), false},
		{"reversed corners", image.Rectangle{Min: image.Pt(110, 60), Max: image.Pt(10, 10)}, image.Rect(10, 10, 110, 60), false},
		{"crosses edge", image.Rect(1900, 1000, 2000, 1200), image.Rect(1900, 1000, 1920, 1080), false},
		{"negative monitor", image.Rect(-100, 5, 50, 15), image.Rect(-100, 5, 50, 15), false},
		{"empty", image.Rect(5, 5, 5, 50), image.Rectangle{}, true},
		{"outside", image.Rect(3000, 3000, 3100, 3100), image.Rectangle{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := clip(tt.in, screen)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCaptureRect(t *testing.T) {
	if os.Getenv("ZTOOLS_INTERACTIVE_TESTS") != "1" {
		t.Skip("set ZTOOLS_INTERACTIVE_TESTS=1 to sample the screen")
	}
	bounds, err := VirtualBounds()
	require.NoError(t, err)

	r := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+40, bounds.Min.Y+30)
	img, err := CaptureRect(r)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}
