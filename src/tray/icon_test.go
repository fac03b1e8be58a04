package tray

import (
	"bytes"
	"encoding/binary"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconPNG(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(iconPNG()))
	require.NoError(t, err)
	assert.Equal(t, iconSize, img.Bounds().Dx())

	_, _, _, a := img.At(16, 15).RGBA()
	assert.Zero(t, a, "selection interior is transparent")
	_, _, _, a = img.At(4, 4).RGBA()
	assert.NotZero(t, a, "outside is dimmed")
}

func TestWrapICO(t *testing.T) {
	p := iconPNG()
	ico := wrapICO(p, iconSize)

	le := binary.LittleEndian
	assert.Equal(t, uint16(0), le.Uint16(ico[0:]))
	assert.Equal(t, uint16(1), le.Uint16(ico[2:]), "type icon")
	assert.Equal(t, uint16(1), le.Uint16(ico[4:]), "one image")
	assert.Equal(t, byte(iconSize), ico[6])
	assert.Equal(t, uint32(len(p)), le.Uint32(ico[14:]))
	assert.Equal(t, uint32(22), le.Uint32(ico[18:]))
	assert.Equal(t, p, ico[22:])
}
