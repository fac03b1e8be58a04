package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"runtime"
)

const iconSize = 32

var (
	selectionBlue = color.RGBA{0, 120, 215, 255}
	dimGray       = color.RGBA{0, 0, 0, 128}
)

// iconImage draws a dimmed screen with a dashed selection cut out of it,
// the same look the capture overlay has.
func iconImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	sel := image.Rect(8, 8, 26, 22)
	for y := 2; y < iconSize-2; y++ {
		for x := 2; x < iconSize-2; x++ {
			if !image.Pt(x, y).In(sel) {
				img.SetRGBA(x, y, dimGray)
			}
		}
	}
	for x := sel.Min.X; x < sel.Max.X; x++ {
		if (x/3)%2 == 0 {
			img.SetRGBA(x, sel.Min.Y, selectionBlue)
			img.SetRGBA(x, sel.Max.Y-1, selectionBlue)
		}
	}
	for y := sel.Min.Y; y < sel.Max.Y; y++ {
		if (y/3)%2 == 0 {
			img.SetRGBA(sel.Min.X, y, selectionBlue)
			img.SetRGBA(sel.Max.X-1, y, selectionBlue)
		}
	}
	return img
}

func iconPNG() []byte {
	var buf bytes.Buffer
	_ = png.Encode(&buf, iconImage())
	return buf.Bytes()
}

// wrapICO packs a PNG into a single-entry .ico container, which is what the
// Windows tray expects.
func wrapICO(pngData []byte, size int) []byte {
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, [3]uint16{0, 1, 1})
	dim := byte(size)
	if size >= 256 {
		dim = 0
	}
	buf.Write([]byte{dim, dim, 0, 0})
	_ = binary.Write(&buf, le, uint16(1))  // planes
	_ = binary.Write(&buf, le, uint16(32)) // bpp
	_ = binary.Write(&buf, le, uint32(len(pngData)))
	_ = binary.Write(&buf, le, uint32(6+16))
	buf.Write(pngData)
	return buf.Bytes()
}

// Icon returns the tray icon in the format the platform tray accepts.
func Icon() []byte {
	p := iconPNG()
	if runtime.GOOS == "windows" {
		return wrapICO(p, iconSize)
	}
	return p
}
