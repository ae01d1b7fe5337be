package store

import (
	"fmt"
	"strings"
)

// PixelFormat tags the native memory layout of a Bitmap.
type PixelFormat int

const (
	// FormatUndefined is the zero value and reports 0 bits per pixel.
	FormatUndefined PixelFormat = iota

	// Format8bppGray is one intensity byte per pixel.
	Format8bppGray

	// Format16bppRGB555 is little-endian 5/5/5 RGB, top bit unused.
	Format16bppRGB555

	// Format16bppRGB565 is little-endian 5/6/5 RGB.
	Format16bppRGB565

	// Format24bppRGB is B, G, R.
	Format24bppRGB

	// Format32bppRGB is B, G, R, X with X always 0xFF.
	Format32bppRGB

	// Format32bppARGB is B, G, R, A with straight alpha.
	Format32bppARGB
)

type formatInfo struct {
	bits  int
	alpha bool
	name  string
}

var formatTable = map[PixelFormat]formatInfo{
	Format8bppGray:    {bits: 8, name: "gray8"},
	Format16bppRGB555: {bits: 16, name: "rgb555"},
	Format16bppRGB565: {bits: 16, name: "rgb565"},
	Format24bppRGB:    {bits: 24, name: "rgb24"},
	Format32bppRGB:    {bits: 32, name: "rgb32"},
	Format32bppARGB:   {bits: 32, alpha: true, name: "argb32"},
}

// Bits returns the size of one pixel in bits, or 0 for an unknown format.
func (f PixelFormat) Bits() int {
	return formatTable[f].bits
}

// HasAlpha reports whether the format carries an alpha channel.
func (f PixelFormat) HasAlpha() bool {
	return formatTable[f].alpha
}

// Valid reports whether f is a known format.
func (f PixelFormat) Valid() bool {
	_, ok := formatTable[f]
	return ok
}

func (f PixelFormat) String() string {
	if info, ok := formatTable[f]; ok {
		return info.name
	}
	if f == FormatUndefined {
		return "undefined"
	}
	return fmt.Sprintf("PixelFormat(%d)", int(f))
}

// ParseFormat resolves a format name such as "argb32" or "gray8".
func ParseFormat(s string) (PixelFormat, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for f, info := range formatTable {
		if info.name == name {
			return f, nil
		}
	}
	switch name {
	case "gray", "grey", "8":
		return Format8bppGray, nil
	case "rgb", "24":
		return Format24bppRGB, nil
	case "argb", "rgba", "32":
		return Format32bppARGB, nil
	}
	return FormatUndefined, fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}
