// Package store is the image backing store behind a pixel buffer. A Bitmap
// owns native pixel memory in one of a few packed layouts, hands out at most
// one lock on it at a time, and converts to and from the standard image
// codecs.
package store

import (
	"fmt"
	"image"
	"math"

	"github.com/rcarmo/lockbits/internal/codec"
	"github.com/rcarmo/lockbits/internal/logging"
)

// LockMode selects how LockBits exposes native memory.
type LockMode int

const (
	// ReadOnly returns a private copy; writes to it are discarded.
	ReadOnly LockMode = 1 << iota
	// WriteOnly returns a view onto native memory.
	WriteOnly
	// ReadWrite returns a view onto native memory.
	ReadWrite = ReadOnly | WriteOnly
)

func (m LockMode) String() string {
	switch m {
	case ReadOnly:
		return "read-only"
	case WriteOnly:
		return "write-only"
	case ReadWrite:
		return "read-write"
	}
	return fmt.Sprintf("LockMode(%d)", int(m))
}

// BitmapData describes a locked region. Pix[0] is the first byte of the
// top-left pixel of Rect and consecutive rows are Stride bytes apart.
type BitmapData struct {
	Rect   image.Rectangle
	Format PixelFormat
	Mode   LockMode
	Stride int
	Pix    []byte
}

// Width returns the width of the locked region in pixels.
func (d *BitmapData) Width() int { return d.Rect.Dx() }

// Height returns the height of the locked region in pixels.
func (d *BitmapData) Height() int { return d.Rect.Dy() }

// Row returns the packed pixel bytes of row y, relative to Rect.Min.Y.
func (d *BitmapData) Row(y int) []byte {
	off := y * d.Stride
	return d.Pix[off : off+d.Rect.Dx()*d.Format.Bits()/8]
}

// Bitmap is a single-owner raster in native layout. It is not safe for
// concurrent use.
type Bitmap struct {
	width  int
	height int
	format PixelFormat
	stride int
	pix    []byte

	lock   *BitmapData
	closed bool

	// Options controls Save and Encode.
	Options EncodeOptions
}

// New allocates a blank bitmap. Every byte is zero except the pad byte of
// Format32bppRGB, which is 0xFF.
func New(width, height int, format PixelFormat) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, format)
	}
	if width > (math.MaxInt-31)/format.Bits() {
		return nil, fmt.Errorf("%w: width %d overflows", ErrInvalidSize, width)
	}

	stride := codec.Stride(width, format.Bits())
	if height > math.MaxInt/stride {
		return nil, fmt.Errorf("%w: %dx%d overflows", ErrInvalidSize, width, height)
	}
	b := &Bitmap{
		width:   width,
		height:  height,
		format:  format,
		stride:  stride,
		pix:     make([]byte, stride*height),
		Options: DefaultEncodeOptions(),
	}

	if format == Format32bppRGB {
		for y := 0; y < height; y++ {
			row := b.row(y)
			for i := 3; i < len(row); i += 4 {
				row[i] = 0xFF
			}
		}
	}

	return b, nil
}

// Bounds returns the bitmap rectangle, always anchored at the origin.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// PixelFormat returns the native layout.
func (b *Bitmap) PixelFormat() PixelFormat {
	return b.format
}

// Stride returns the byte distance between native rows.
func (b *Bitmap) Stride() int {
	return b.stride
}

// Locked reports whether a lock is outstanding.
func (b *Bitmap) Locked() bool {
	return b.lock != nil
}

func (b *Bitmap) row(y int) []byte {
	off := y * b.stride
	return b.pix[off : off+b.width*b.format.Bits()/8]
}

// LockBits grants direct access to rect. Only one lock may be outstanding.
func (b *Bitmap) LockBits(rect image.Rectangle, mode LockMode) (*BitmapData, error) {
	if b.closed {
		return nil, ErrClosed
	}
	if b.lock != nil {
		return nil, ErrLocked
	}
	if rect.Empty() || !rect.In(b.Bounds()) {
		return nil, fmt.Errorf("%w: %v not in %v", ErrInvalidRegion, rect, b.Bounds())
	}
	if mode&ReadWrite == 0 || mode&^ReadWrite != 0 {
		return nil, fmt.Errorf("store: invalid lock mode %v", mode)
	}

	bpp := b.format.Bits() / 8
	start := rect.Min.Y*b.stride + rect.Min.X*bpp
	end := (rect.Max.Y-1)*b.stride + rect.Max.X*bpp

	pix := b.pix[start:end:end]
	if mode == ReadOnly {
		pix = append([]byte(nil), pix...)
	}

	b.lock = &BitmapData{
		Rect:   rect,
		Format: b.format,
		Mode:   mode,
		Stride: b.stride,
		Pix:    pix,
	}

	logging.Debug("Store: locked %v %s (%s)", rect, b.format, mode)
	return b.lock, nil
}

// UnlockBits releases a lock returned by LockBits.
func (b *Bitmap) UnlockBits(data *BitmapData) error {
	if b.closed {
		return ErrClosed
	}
	if b.lock == nil || data != b.lock {
		return ErrNotLocked
	}

	b.lock = nil
	logging.Debug("Store: unlocked %v", data.Rect)
	return nil
}

// Close releases native memory. It is safe to call more than once.
func (b *Bitmap) Close() error {
	if b.closed {
		return nil
	}

	b.closed = true
	b.lock = nil
	b.pix = nil
	logging.Debug("Store: released %dx%d %s", b.width, b.height, b.format)
	return nil
}
