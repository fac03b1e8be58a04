package capture

import (
	"image"
	"image/color"
)

// Style controls how the overlay is painted.
type Style struct {
	// Alpha is the opacity of the dimmed area outside the selection.
	Alpha uint8
	// Border is the outline width in pixels, drawn inside the selection.
	Border      int
	BorderColor color.RGBA
}

// DefaultStyle dims to half opacity with a 2px blue outline.
func DefaultStyle() Style {
	return Style{Alpha: 128, Border: 2, BorderColor: color.RGBA{R: 0, G: 120, B: 215, A: 255}}
}

// Frame returns a premultiplied top-down BGRA buffer of size.X*size.Y pixels.
func Frame(size image.Point, sel image.Rectangle, style Style) []byte {
	if size.X <= 0 || size.Y <= 0 {
		return nil
	}
	buf := make([]byte, size.X*size.Y*4)
	Render(buf, size, sel, style)
	return buf
}

// Render paints into dst, which must hold at least size.X*size.Y*4 bytes.
// sel is clipped to the surface; an empty sel dims everything.
func Render(dst []byte, size image.Point, sel image.Rectangle, style Style) {
	if size.X <= 0 || size.Y <= 0 || len(dst) < size.X*size.Y*4 {
		return
	}
	surface := image.Rectangle{Max: size}
	sel = sel.Canon().Intersect(surface)
	inner := sel
	if style.Border > 0 {
		inner = sel.Inset(style.Border)
		if inner.Dx() <= 0 || inner.Dy() <= 0 {
			inner = image.Rectangle{}
		}
	}

	dim := [4]byte{0, 0, 0, style.Alpha}
	transparent := [4]byte{}
	edge := premultiplied(style.BorderColor)

	stride := size.X * 4
	for y := 0; y < size.Y; y++ {
		row := dst[y*stride : (y+1)*stride]
		if y < sel.Min.Y || y >= sel.Max.Y {
			fill(row, dim)
			continue
		}
		fill(row[:sel.Min.X*4], dim)
		fill(row[sel.Max.X*4:], dim)
		if style.Border <= 0 {
			fill(row[sel.Min.X*4:sel.Max.X*4], transparent)
			continue
		}
		if y < inner.Min.Y || y >= inner.Max.Y {
			fill(row[sel.Min.X*4:sel.Max.X*4], edge)
			continue
		}
		fill(row[sel.Min.X*4:inner.Min.X*4], edge)
		fill(row[inner.Min.X*4:inner.Max.X*4], transparent)
		fill(row[inner.Max.X*4:sel.Max.X*4], edge)
	}
}

func premultiplied(c color.RGBA) [4]byte {
	a := uint32(c.A)
	return [4]byte{
		byte(uint32(c.B) * a / 255),
		byte(uint32(c.G) * a / 255),
		byte(uint32(c.R) * a / 255),
		c.A,
	}
}

func fill(px []byte, v [4]byte) {
	for i := 0; i+4 <= len(px); i += 4 {
		px[i], px[i+1], px[i+2], px[i+3] = v[0], v[1], v[2], v[3]
	}
}
