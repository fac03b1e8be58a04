package capture

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pixel(buf []byte, size image.Point, x, y int) [4]byte {
	i := (y*size.X + x) * 4
	return [4]byte{buf[i], buf[i+1], buf[i+2], buf[i+3]}
}

func TestFrameNoSelectionDimsEverything(t *testing.T) {
	size := image.Pt(8, 4)
	buf := Frame(size, image.Rectangle{}, DefaultStyle())
	require.Len(t, buf, 8*4*4)
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			assert.Equal(t, [4]byte{0, 0, 0, 128}, pixel(buf, size, x, y))
		}
	}
}

func TestFrameSelection(t *testing.T) {
	size := image.Pt(20, 20)
	sel := image.Rect(5, 5, 15, 15)
	buf := Frame(size, sel, DefaultStyle())

	dim := [4]byte{0, 0, 0, 128}
	edge := [4]byte{215, 120, 0, 255}
	hole := [4]byte{0, 0, 0, 0}

	assert.Equal(t, dim, pixel(buf, size, 0, 0))
	assert.Equal(t, dim, pixel(buf, size, 4, 10))
	assert.Equal(t, dim, pixel(buf, size, 15, 10))
	assert.Equal(t, dim, pixel(buf, size, 10, 15))

	assert.Equal(t, edge, pixel(buf, size, 5, 5))
	assert.Equal(t, edge, pixel(buf, size, 6, 10))
	assert.Equal(t, edge, pixel(buf, size, 14, 14))
	assert.Equal(t, edge, pixel(buf, size, 10, 13))

	assert.Equal(t, hole, pixel(buf, size, 7, 7))
	assert.Equal(t, hole, pixel(buf, size, 12, 12))
}

func TestFrameTinySelectionIsAllBorder(t *testing.T) {
	size := image.Pt(10, 10)
	buf := Frame(size, image.Rect(2, 2, 5, 5), DefaultStyle())
	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			assert.Equal(t, [4]byte{215, 120, 0, 255}, pixel(buf, size, x, y))
		}
	}
}

func TestFrameClipsSelection(t *testing.T) {
	size := image.Pt(10, 10)
	style := Style{Alpha: 200}
	buf := Frame(size, image.Rect(-5, -5, 3, 3), style)
	assert.Equal(t, [4]byte{}, pixel(buf, size, 0, 0))
	assert.Equal(t, [4]byte{}, pixel(buf, size, 2, 2))
	assert.Equal(t, [4]byte{0, 0, 0, 200}, pixel(buf, size, 3, 3))
}

func TestFramePremultipliesBorder(t *testing.T) {
	size := image.Pt(6, 6)
	style := Style{Alpha: 128, Border: 1, BorderColor: color.RGBA{R: 200, G: 100, B: 50, A: 128}}
	buf := Frame(size, image.Rect(0, 0, 6, 6), style)
	assert.Equal(t, [4]byte{25, 50, 100, 128}, pixel(buf, size, 0, 0))
	assert.Equal(t, [4]byte{}, pixel(buf, size, 2, 2))
}

func TestFrameEmptySize(t *testing.T) {
	assert.Nil(t, Frame(image.Pt(0, 10), image.Rectangle{}, DefaultStyle()))
}
