// Package pixbuf gives direct read/write access to the pixels of a raster
// image through a flat byte buffer.
//
// A Buffer mirrors the memory of an image backing store. Lock copies the
// store's native rows into the buffer, the pixel accessors work on the
// buffer alone, and Unlock copies the buffer back and releases the store's
// lock. The buffer is laid out row-major with no padding. Each pixel is one
// intensity byte at 8 bpp, or B, G, R at 24 bpp, or B, G, R, A at 32 bpp.
//
// A Buffer is not safe for concurrent use.
package pixbuf

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/rcarmo/lockbits/internal/logging"
	"github.com/rcarmo/lockbits/internal/store"
)

// Backing is the image backing store a Buffer wraps. *store.Bitmap is the
// implementation used by the constructors in this package.
type Backing interface {
	Bounds() image.Rectangle
	PixelFormat() store.PixelFormat
	LockBits(rect image.Rectangle, mode store.LockMode) (*store.BitmapData, error)
	UnlockBits(data *store.BitmapData) error
	Save(path string) error
	Encode(w io.Writer, enc store.Encoding) error
	Close() error
}

var _ Backing = (*store.Bitmap)(nil)

// DefaultFormat is used by New when the format is store.FormatUndefined.
const DefaultFormat = store.Format32bppARGB

// Buffer is a locked, directly addressable copy of a backing store's pixels.
type Buffer struct {
	backing Backing
	data    *store.BitmapData

	rect          image.Rectangle
	format        store.PixelFormat
	width         int
	height        int
	bitsPerPixel  int
	bytesPerPixel int

	pix    []byte
	closed bool
}

func checkFormat(format store.PixelFormat) error {
	switch bits := format.Bits(); bits {
	case 8, 24, 32:
		return nil
	default:
		return fmt.Errorf("%w: %v (%d bpp)", ErrUnsupportedFormat, format, bits)
	}
}

// New creates a blank backing store of the given size and format and
// returns it locked. store.FormatUndefined selects DefaultFormat.
func New(width, height int, format store.PixelFormat) (*Buffer, error) {
	if format == store.FormatUndefined {
		format = DefaultFormat
	}
	if err := checkFormat(format); err != nil {
		return nil, err
	}

	bm, err := store.New(width, height, format)
	if err != nil {
		return nil, err
	}
	return adopt(bm)
}

// Open decodes the image file at path and returns it locked.
func Open(path string) (*Buffer, error) {
	bm, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	return adopt(bm)
}

// Decode reads an encoded image from r and returns it locked.
func Decode(r io.Reader) (*Buffer, error) {
	bm, err := store.Decode(r)
	if err != nil {
		return nil, err
	}
	return adopt(bm)
}

// FromImage copies an in-memory image into a new backing store and returns
// it locked.
func FromImage(img image.Image) (*Buffer, error) {
	bm, err := store.FromImage(img)
	if err != nil {
		return nil, err
	}
	return adopt(bm)
}

// adopt wraps a store this package created, closing it on failure.
func adopt(bm *store.Bitmap) (*Buffer, error) {
	b, err := Wrap(bm)
	if err != nil {
		_ = bm.Close()
		return nil, err
	}
	return b, nil
}

// Wrap takes ownership of backing and returns it locked. On error the
// caller still owns backing.
func Wrap(backing Backing) (*Buffer, error) {
	b := &Buffer{}
	if err := b.Load(backing); err != nil {
		b.backing = nil
		return nil, err
	}
	return b, nil
}

// Load replaces the backing store. The new store's format is checked first,
// so an unsupported store leaves the buffer and its current store untouched.
// Otherwise the current store is released without flushing the buffer, the
// new one is adopted, and it is locked.
//
// Once adopted the new store belongs to the buffer even if locking it
// fails. The buffer is left unlocked and Close still releases the store.
// Loading the store the buffer already owns returns ErrAlreadyLoaded and
// changes nothing.
func (b *Buffer) Load(backing Backing) error {
	if b.closed {
		return ErrClosed
	}
	if b.backing != nil && backing == b.backing {
		return ErrAlreadyLoaded
	}

	format := backing.PixelFormat()
	if err := checkFormat(format); err != nil {
		return err
	}

	if err := b.release(); err != nil {
		logging.Warn("PixelBuffer: releasing previous store: %v", err)
	}

	rect := backing.Bounds()
	b.backing = backing
	b.rect = rect
	b.format = format
	b.width = rect.Dx()
	b.height = rect.Dy()
	b.bitsPerPixel = format.Bits()
	b.bytesPerPixel = b.bitsPerPixel / 8
	b.pix = nil

	return b.Lock()
}

// Lock acquires the backing store's pixel memory and copies it into the
// buffer. Errors from the store are returned unchanged.
func (b *Buffer) Lock() error {
	if b.closed {
		return ErrClosed
	}

	data, err := b.backing.LockBits(b.rect, store.ReadWrite)
	if err != nil {
		return err
	}

	size := b.PixelCount() * b.bytesPerPixel
	if len(b.pix) != size {
		b.pix = make([]byte, size)
	}

	rowBytes := b.width * b.bytesPerPixel
	for y := 0; y < b.height; y++ {
		copy(b.pix[y*rowBytes:(y+1)*rowBytes], data.Row(y))
	}
	b.data = data

	logging.Debug("PixelBuffer: locked %dx%d (%d bpp)", b.width, b.height, b.bitsPerPixel)
	return nil
}

// Unlock copies the buffer back into the backing store and releases the
// lock. The buffer keeps its contents but is no longer authoritative.
func (b *Buffer) Unlock() error {
	if b.closed {
		return ErrClosed
	}
	if b.data == nil {
		return ErrNotLocked
	}

	rowBytes := b.width * b.bytesPerPixel
	for y := 0; y < b.height; y++ {
		copy(b.data.Row(y), b.pix[y*rowBytes:(y+1)*rowBytes])
	}

	if err := b.backing.UnlockBits(b.data); err != nil {
		return err
	}
	b.data = nil

	logging.Debug("PixelBuffer: unlocked %dx%d", b.width, b.height)
	return nil
}

// Locked reports whether the buffer currently holds the store's lock.
func (b *Buffer) Locked() bool {
	return b.data != nil
}

// Save commits the buffer and writes the backing store to path, choosing
// the encoding from the extension. If relock is set the buffer is locked
// again afterwards. When encoding fails the buffer is left unlocked.
func (b *Buffer) Save(path string, relock bool) error {
	return b.persist(relock, func() error {
		return b.backing.Save(path)
	}, path)
}

// SaveTo is Save for a stream.
func (b *Buffer) SaveTo(w io.Writer, enc store.Encoding, relock bool) error {
	return b.persist(relock, func() error {
		return b.backing.Encode(w, enc)
	}, enc.String()+" stream")
}

func (b *Buffer) persist(relock bool, write func() error, dest string) error {
	if b.closed {
		return ErrClosed
	}
	if b.data != nil {
		if err := b.Unlock(); err != nil {
			return err
		}
	}

	if err := write(); err != nil {
		return err
	}
	logging.Debug("PixelBuffer: saved %dx%d to %s", b.width, b.height, dest)

	if relock {
		return b.Lock()
	}
	return nil
}

// Close releases the backing store without flushing the buffer. It is safe
// to call more than once. The buffer must not be used afterwards.
func (b *Buffer) Close() error {
	if b.closed {
		return nil
	}

	b.closed = true
	err := b.release()
	b.pix = nil
	return err
}

func (b *Buffer) release() error {
	if b.backing == nil {
		return nil
	}

	var errs []error
	if b.data != nil {
		errs = append(errs, b.backing.UnlockBits(b.data))
		b.data = nil
	}
	errs = append(errs, b.backing.Close())
	b.backing = nil

	return errors.Join(errs...)
}

// Backing returns the wrapped store. It stays owned by the buffer.
func (b *Buffer) Backing() Backing { return b.backing }

// Width returns the image width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the image height in pixels.
func (b *Buffer) Height() int { return b.height }

// BitsPerPixel returns 8, 24 or 32.
func (b *Buffer) BitsPerPixel() int { return b.bitsPerPixel }

// BytesPerPixel returns 1, 3 or 4.
func (b *Buffer) BytesPerPixel() int { return b.bytesPerPixel }

// PixelCount returns Width*Height.
func (b *Buffer) PixelCount() int { return b.width * b.height }

// PixelFormat returns the backing store's format.
func (b *Buffer) PixelFormat() store.PixelFormat { return b.format }

// Bytes returns the live buffer. Writes to it are committed by Unlock.
func (b *Buffer) Bytes() []byte { return b.pix }
