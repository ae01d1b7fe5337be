package pixbuf

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an 8-bit per channel ARGB value with straight alpha.
type Color struct {
	A, R, G, B uint8
}

// ARGB builds a Color from its four channels.
func ARGB(a, r, g, b uint8) Color {
	return Color{A: a, R: r, G: g, B: b}
}

// RGB builds an opaque Color.
func RGB(r, g, b uint8) Color {
	return Color{A: 0xFF, R: r, G: g, B: b}
}

// Named colors accepted by ParseColor.
var (
	Black       = RGB(0, 0, 0)
	White       = RGB(0xFF, 0xFF, 0xFF)
	Transparent = Color{}
)

// RGBA implements color.Color. The result is alpha-premultiplied.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// Gray reduces the color to one intensity using the same luma weights as
// color.GrayModel. Alpha is ignored and gray input maps to itself.
func (c Color) Gray() uint8 {
	y := (19595*uint32(c.R) + 38470*uint32(c.G) + 7471*uint32(c.B) + 1<<15) >> 16
	return uint8(y)
}

// String formats the color as #AARRGGBB.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
}

// ColorModel converts any color.Color to a Color.
var ColorModel = color.ModelFunc(func(c color.Color) color.Color {
	return colorOf(c)
})

func colorOf(c color.Color) Color {
	if pc, ok := c.(Color); ok {
		return pc
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{A: n.A, R: n.R, G: n.G, B: n.B}
}

// ParseColor accepts #RRGGBB, #AARRGGBB (the # is optional) and the names
// black, white and transparent.
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "black":
		return Black, nil
	case "white":
		return White, nil
	case "transparent":
		return Transparent, nil
	}

	v = strings.TrimPrefix(v, "#")
	if len(v) != 6 && len(v) != 8 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}

	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(v) == 6 {
		n |= 0xFF000000
	}

	return Color{
		A: uint8(n >> 24),
		R: uint8(n >> 16),
		G: uint8(n >> 8),
		B: uint8(n),
	}, nil
}
