package pixbuf

import (
	"image"
	"image/color"
	"image/draw"
)

// Compile-time interface checks.
var (
	_ image.Image = (*Buffer)(nil)
	_ draw.Image  = (*Buffer)(nil)
)

// Pixel returns the color at (x, y). Coordinates are not checked; the
// caller keeps them inside the image. 8 bpp pixels read as opaque gray and
// 24 bpp pixels as opaque color.
func (b *Buffer) Pixel(x, y int) Color {
	if checkBounds {
		b.mustContain(x, y)
	}

	i := (y*b.width + x) * b.bytesPerPixel
	switch b.bytesPerPixel {
	case 1:
		v := b.pix[i]
		return Color{A: 0xFF, R: v, G: v, B: v}
	case 3:
		return Color{A: 0xFF, R: b.pix[i+2], G: b.pix[i+1], B: b.pix[i]}
	default:
		return Color{A: b.pix[i+3], R: b.pix[i+2], G: b.pix[i+1], B: b.pix[i]}
	}
}

// SetPixel writes c at (x, y). Coordinates are not checked. At 8 bpp the
// byte becomes c.Gray() and alpha is dropped; at 24 bpp alpha is dropped.
func (b *Buffer) SetPixel(x, y int, c Color) {
	if checkBounds {
		b.mustContain(x, y)
	}

	i := (y*b.width + x) * b.bytesPerPixel
	if b.bytesPerPixel == 1 {
		b.pix[i] = c.Gray()
		return
	}

	b.pix[i] = c.B
	b.pix[i+1] = c.G
	b.pix[i+2] = c.R
	if b.bytesPerPixel == 4 {
		b.pix[i+3] = c.A
	}
}

// Fill sets every pixel to c, following the SetPixel rules.
func (b *Buffer) Fill(c Color) {
	if len(b.pix) == 0 {
		return
	}

	b.SetPixel(0, 0, c)
	for n := b.bytesPerPixel; n < len(b.pix); n *= 2 {
		copy(b.pix[n:], b.pix[:n])
	}
}

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model {
	return ColorModel
}

// At implements image.Image. Unlike Pixel it returns the zero Color
// outside the image.
func (b *Buffer) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(b.Bounds())) {
		return Color{}
	}
	return b.Pixel(x, y)
}

// Set implements draw.Image. Unlike SetPixel it ignores points outside the
// image.
func (b *Buffer) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(b.Bounds())) {
		return
	}
	b.SetPixel(x, y, colorOf(c))
}
