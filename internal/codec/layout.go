// Package codec converts rows of native bitmap memory to and from the
// interleaved RGBA layouts used by the standard image package.
//
// Native layouts store channels blue first: BGR for 24 bpp, BGRX or BGRA for
// 32 bpp. The 16 bpp layouts are little-endian packed RGB565 and RGB555.
// Every converter walks src and dst in lockstep and stops at whichever runs
// out first, so callers pass row slices and never over-read.
package codec

// Stride returns the byte length of one native row: width*bits rounded up
// to a 4-byte boundary.
func Stride(width, bits int) int {
	return ((width*bits + 31) / 32) * 4
}

// BGR24ToRGBA converts 24-bit BGR to 32-bit RGBA
func BGR24ToRGBA(src []byte, dst []byte) {
	srcIdx := 0
	dstIdx := 0

	for srcIdx+2 < len(src) && dstIdx+3 < len(dst) {
		dst[dstIdx] = src[srcIdx+2]   // R
		dst[dstIdx+1] = src[srcIdx+1] // G
		dst[dstIdx+2] = src[srcIdx]   // B
		dst[dstIdx+3] = 255

		srcIdx += 3
		dstIdx += 4
	}
}

// BGRX32ToRGBA converts 32-bit BGRX to opaque 32-bit RGBA. The X byte is ignored.
func BGRX32ToRGBA(src []byte, dst []byte) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		dst[i] = src[i+2]   // R
		dst[i+1] = src[i+1] // G
		dst[i+2] = src[i]   // B
		dst[i+3] = 255
	}
}

// BGRA32ToNRGBA converts 32-bit BGRA to non-premultiplied RGBA, keeping alpha.
func BGRA32ToNRGBA(src []byte, dst []byte) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		dst[i] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i]
		dst[i+3] = src[i+3]
	}
}

// RGB565ToRGBA converts 16-bit RGB565 to 32-bit RGBA
func RGB565ToRGBA(src []byte, dst []byte) {
	srcIdx := 0
	dstIdx := 0

	for srcIdx+1 < len(src) && dstIdx+3 < len(dst) {
		pel := uint16(src[srcIdx]) | (uint16(src[srcIdx+1]) << 8)

		r := (pel & 0xF800) >> 11
		g := (pel & 0x07E0) >> 5
		b := pel & 0x001F

		// Expand 5/6/5 to 8/8/8
		r = (r << 3) | (r >> 2)
		g = (g << 2) | (g >> 4)
		b = (b << 3) | (b >> 2)

		dst[dstIdx] = byte(r)
		dst[dstIdx+1] = byte(g)
		dst[dstIdx+2] = byte(b)
		dst[dstIdx+3] = 255

		srcIdx += 2
		dstIdx += 4
	}
}

// RGB555ToRGBA converts 16-bit RGB555 (top bit unused) to 32-bit RGBA.
func RGB555ToRGBA(src []byte, dst []byte) {
	srcIdx := 0
	dstIdx := 0

	for srcIdx+1 < len(src) && dstIdx+3 < len(dst) {
		pel := uint16(src[srcIdx]) | (uint16(src[srcIdx+1]) << 8)

		r := (pel & 0x7C00) >> 10
		g := (pel & 0x03E0) >> 5
		b := pel & 0x001F

		r = (r << 3) | (r >> 2)
		g = (g << 3) | (g >> 2)
		b = (b << 3) | (b >> 2)

		dst[dstIdx] = byte(r)
		dst[dstIdx+1] = byte(g)
		dst[dstIdx+2] = byte(b)
		dst[dstIdx+3] = 255

		srcIdx += 2
		dstIdx += 4
	}
}

// RGBAToBGR24 packs 32-bit RGBA into 24-bit BGR, dropping alpha.
func RGBAToBGR24(src []byte, dst []byte) {
	srcIdx := 0
	dstIdx := 0

	for srcIdx+3 < len(src) && dstIdx+2 < len(dst) {
		dst[dstIdx] = src[srcIdx+2]
		dst[dstIdx+1] = src[srcIdx+1]
		dst[dstIdx+2] = src[srcIdx]

		srcIdx += 4
		dstIdx += 3
	}
}

// RGBAToBGRX32 converts 32-bit RGBA to BGRX with X set to 0xFF.
func RGBAToBGRX32(src []byte, dst []byte) {
	for i := 0; i+3 < len(src) && i+3 < len(dst); i += 4 {
		dst[i] = src[i+2]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i]
		dst[i+3] = 0xFF
	}
}

// NRGBAToBGRA32 converts non-premultiplied RGBA to BGRA. It is its own
// inverse of BGRA32ToNRGBA.
func NRGBAToBGRA32(src []byte, dst []byte) {
	BGRA32ToNRGBA(src, dst)
}

// RGBAToRGB565 packs 32-bit RGBA into little-endian RGB565.
func RGBAToRGB565(src []byte, dst []byte) {
	srcIdx := 0
	dstIdx := 0

	for srcIdx+3 < len(src) && dstIdx+1 < len(dst) {
		pel := uint16(src[srcIdx]>>3)<<11 | uint16(src[srcIdx+1]>>2)<<5 | uint16(src[srcIdx+2]>>3)

		dst[dstIdx] = byte(pel)
		dst[dstIdx+1] = byte(pel >> 8)

		srcIdx += 4
		dstIdx += 2
	}
}

// RGBAToRGB555 packs 32-bit RGBA into little-endian RGB555.
func RGBAToRGB555(src []byte, dst []byte) {
	srcIdx := 0
	dstIdx := 0

	for srcIdx+3 < len(src) && dstIdx+1 < len(dst) {
		pel := uint16(src[srcIdx]>>3)<<10 | uint16(src[srcIdx+1]>>3)<<5 | uint16(src[srcIdx+2]>>3)

		dst[dstIdx] = byte(pel)
		dst[dstIdx+1] = byte(pel >> 8)

		srcIdx += 4
		dstIdx += 2
	}
}
