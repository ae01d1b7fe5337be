package pixbuf

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcarmo/lockbits/internal/store"
)

func newBuffer(t *testing.T, width, height int, format store.PixelFormat) *Buffer {
	t.Helper()

	b, err := New(width, height, format)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestNew_SupportedFormats(t *testing.T) {
	tests := []struct {
		name   string
		format store.PixelFormat
		bits   int
	}{
		{"gray8", store.Format8bppGray, 8},
		{"rgb24", store.Format24bppRGB, 24},
		{"rgb32", store.Format32bppRGB, 32},
		{"argb32", store.Format32bppARGB, 32},
		{"default", store.FormatUndefined, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuffer(t, 3, 5, tt.format)

			assert.Equal(t, 3, b.Width())
			assert.Equal(t, 5, b.Height())
			assert.Equal(t, 15, b.PixelCount())
			assert.Equal(t, tt.bits, b.BitsPerPixel())
			assert.Equal(t, tt.bits/8, b.BytesPerPixel())
			assert.Len(t, b.Bytes(), 15*tt.bits/8)
			assert.True(t, b.Locked())
		})
	}
}

func TestNew_DefaultFormatIsARGB(t *testing.T) {
	b := newBuffer(t, 1, 1, store.FormatUndefined)

	assert.Equal(t, store.Format32bppARGB, b.PixelFormat())
	assert.Equal(t, DefaultFormat, b.PixelFormat())
}

func TestNew_UnsupportedFormat(t *testing.T) {
	for _, format := range []store.PixelFormat{store.Format16bppRGB555, store.Format16bppRGB565, store.PixelFormat(99)} {
		t.Run(format.String(), func(t *testing.T) {
			b, err := New(2, 2, format)
			require.ErrorIs(t, err, ErrUnsupportedFormat)
			assert.Nil(t, b)
		})
	}
}

func TestNew_InvalidSize(t *testing.T) {
	_, err := New(0, 4, store.Format24bppRGB)
	require.ErrorIs(t, err, store.ErrInvalidSize)

	// the native allocation size would overflow
	_, err = New(math.MaxInt/64, math.MaxInt/64, store.Format32bppARGB)
	require.ErrorIs(t, err, store.ErrInvalidSize)
}

func TestWrap_UnsupportedLeavesStoreWithCaller(t *testing.T) {
	bm, err := store.New(2, 2, store.Format16bppRGB565)
	require.NoError(t, err)

	b, err := Wrap(bm)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Nil(t, b)

	// still open and unlocked
	data, err := bm.LockBits(bm.Bounds(), store.ReadWrite)
	require.NoError(t, err)
	require.NoError(t, bm.UnlockBits(data))
	require.NoError(t, bm.Close())
}

func TestPixelRoundTrip(t *testing.T) {
	colors := []Color{
		ARGB(255, 10, 20, 30),
		ARGB(128, 40, 50, 60),
		ARGB(0, 0, 0, 0),
		ARGB(255, 255, 255, 255),
		ARGB(7, 200, 100, 50),
	}

	tests := []struct {
		name   string
		format store.PixelFormat
		blank  Color
		expect func(Color) Color
	}{
		{"argb32", store.Format32bppARGB, Color{}, func(c Color) Color { return c }},
		{"rgb32", store.Format32bppRGB, Black, func(c Color) Color { return c }},
		{"rgb24", store.Format24bppRGB, Black, func(c Color) Color {
			c.A = 0xFF
			return c
		}},
		{"gray8", store.Format8bppGray, Black, func(c Color) Color {
			v := c.Gray()
			return ARGB(0xFF, v, v, v)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuffer(t, len(colors), 2, tt.format)

			for x, c := range colors {
				b.SetPixel(x, 1, c)
			}
			for x, c := range colors {
				assert.Equal(t, tt.expect(c), b.Pixel(x, 1), "pixel %d", x)
				assert.Equal(t, tt.blank, b.Pixel(x, 0), "row 0 untouched")
			}
		})
	}
}

func TestPixel_ByteLayout(t *testing.T) {
	b := newBuffer(t, 2, 1, store.Format32bppARGB)
	b.SetPixel(1, 0, ARGB(0x44, 0x33, 0x22, 0x11))
	assert.Equal(t, []byte{0, 0, 0, 0, 0x11, 0x22, 0x33, 0x44}, b.Bytes())

	b24 := newBuffer(t, 2, 1, store.Format24bppRGB)
	b24.SetPixel(1, 0, ARGB(0x44, 0x33, 0x22, 0x11))
	assert.Equal(t, []byte{0, 0, 0, 0x11, 0x22, 0x33}, b24.Bytes())

	b8 := newBuffer(t, 2, 1, store.Format8bppGray)
	b8.SetPixel(0, 0, RGB(90, 90, 90))
	assert.Equal(t, []byte{90, 0}, b8.Bytes())
}

func TestScenario_TwoByTwoARGB(t *testing.T) {
	b := newBuffer(t, 2, 2, store.FormatUndefined)

	want := map[image.Point]Color{
		{X: 0, Y: 0}: ARGB(255, 10, 20, 30),
		{X: 1, Y: 0}: ARGB(255, 40, 50, 60),
		{X: 0, Y: 1}: ARGB(0, 0, 0, 0),
		{X: 1, Y: 1}: ARGB(255, 255, 255, 255),
	}
	for p, c := range want {
		b.SetPixel(p.X, p.Y, c)
	}

	require.NoError(t, b.Unlock())
	require.NoError(t, b.Lock())

	for p, c := range want {
		assert.Equal(t, c, b.Pixel(p.X, p.Y), "pixel %v", p)
	}
}

func TestScenario_GrayIntensity(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 1, 1))
	src.SetGray(0, 0, color.Gray{Y: 128})

	b, err := FromImage(src)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, 8, b.BitsPerPixel())
	assert.Equal(t, ARGB(255, 128, 128, 128), b.Pixel(0, 0))
}

func TestLockUnlock_Idempotent(t *testing.T) {
	b := newBuffer(t, 3, 3, store.Format24bppRGB)
	for i := range b.Bytes() {
		b.Bytes()[i] = byte(i * 7)
	}
	require.NoError(t, b.Unlock())
	require.NoError(t, b.Lock())

	first := append([]byte(nil), b.Bytes()...)

	require.NoError(t, b.Unlock())
	require.NoError(t, b.Lock())
	require.NoError(t, b.Unlock())
	require.NoError(t, b.Lock())

	assert.Equal(t, first, b.Bytes())
	assert.Len(t, b.Bytes(), 3*3*3)
}

func TestUnlock_CommitsToStore(t *testing.T) {
	// width 3 at 24 bpp has a padded native stride
	b := newBuffer(t, 3, 2, store.Format24bppRGB)
	b.SetPixel(2, 1, RGB(1, 2, 3))
	require.NoError(t, b.Unlock())

	bm := b.Backing().(*store.Bitmap)
	img, err := bm.Image()
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, img.At(2, 1))
	assert.Equal(t, color.RGBA{A: 255}, img.At(0, 0))
}

func TestLock_Errors(t *testing.T) {
	b := newBuffer(t, 1, 1, store.Format24bppRGB)

	// the store refuses a second lock and the error comes through unchanged
	require.ErrorIs(t, b.Lock(), store.ErrLocked)
	assert.True(t, b.Locked())

	require.NoError(t, b.Unlock())
	require.ErrorIs(t, b.Unlock(), ErrNotLocked)
}

type failingBacking struct {
	*store.Bitmap
	lockErr error
}

func (f *failingBacking) LockBits(rect image.Rectangle, mode store.LockMode) (*store.BitmapData, error) {
	if f.lockErr != nil {
		return nil, f.lockErr
	}
	return f.Bitmap.LockBits(rect, mode)
}

func TestWrap_LockFailure(t *testing.T) {
	bm, err := store.New(1, 1, store.Format32bppARGB)
	require.NoError(t, err)
	lockErr := errors.New("device busy")

	b, err := Wrap(&failingBacking{Bitmap: bm, lockErr: lockErr})
	require.ErrorIs(t, err, lockErr)
	assert.Nil(t, b)

	// caller still owns the store
	require.NoError(t, bm.Close())
}

func TestLoad_LockFailureKeepsStore(t *testing.T) {
	b := newBuffer(t, 2, 2, store.Format24bppRGB)
	old := b.Backing().(*store.Bitmap)

	bm, err := store.New(3, 3, store.Format32bppARGB)
	require.NoError(t, err)
	lockErr := errors.New("device busy")
	next := &failingBacking{Bitmap: bm, lockErr: lockErr}

	require.ErrorIs(t, b.Load(next), lockErr)

	// the new store was adopted and the old one released
	assert.Same(t, next, b.Backing())
	assert.False(t, b.Locked())
	assert.Equal(t, 3, b.Width())
	_, err = old.LockBits(old.Bounds(), store.ReadWrite)
	require.ErrorIs(t, err, store.ErrClosed)

	next.lockErr = nil
	require.NoError(t, b.Lock())
	assert.Len(t, b.Bytes(), 36)

	require.NoError(t, b.Close())
	_, err = bm.LockBits(bm.Bounds(), store.ReadWrite)
	require.ErrorIs(t, err, store.ErrClosed)
}

func TestLoad_SameStore(t *testing.T) {
	b := newBuffer(t, 2, 1, store.Format24bppRGB)
	b.SetPixel(1, 0, RGB(4, 5, 6))

	require.ErrorIs(t, b.Load(b.Backing()), ErrAlreadyLoaded)

	assert.True(t, b.Locked())
	assert.Equal(t, RGB(4, 5, 6), b.Pixel(1, 0))
	require.NoError(t, b.Unlock())
	require.NoError(t, b.Lock())
}

func TestLoad_ValidateThenSwap(t *testing.T) {
	b := newBuffer(t, 2, 2, store.Format24bppRGB)
	b.SetPixel(1, 1, RGB(9, 8, 7))
	old := b.Backing().(*store.Bitmap)

	bad, err := store.New(4, 4, store.Format16bppRGB555)
	require.NoError(t, err)
	defer bad.Close()

	require.ErrorIs(t, b.Load(bad), ErrUnsupportedFormat)

	// nothing changed
	assert.Same(t, old, b.Backing())
	assert.True(t, b.Locked())
	assert.Equal(t, 2, b.Width())
	assert.Equal(t, RGB(9, 8, 7), b.Pixel(1, 1))

	next, err := store.New(3, 1, store.Format8bppGray)
	require.NoError(t, err)
	require.NoError(t, b.Load(next))

	assert.Equal(t, 3, b.Width())
	assert.Equal(t, 1, b.Height())
	assert.Equal(t, 8, b.BitsPerPixel())
	assert.Len(t, b.Bytes(), 3)
	assert.True(t, b.Locked())

	// the previous store was released
	_, err = old.LockBits(old.Bounds(), store.ReadWrite)
	require.ErrorIs(t, err, store.ErrClosed)
}

func TestSave_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		format store.PixelFormat
		alpha  uint8
		file   string
		want   store.PixelFormat
	}{
		{"gray8 png", store.Format8bppGray, 255, "gray.png", store.Format8bppGray},
		{"rgb24 png", store.Format24bppRGB, 255, "rgb.png", store.Format24bppRGB},
		{"rgb24 bmp", store.Format24bppRGB, 255, "rgb.bmp", store.Format24bppRGB},
		{"argb32 png", store.Format32bppARGB, 200, "argb.png", store.Format32bppARGB},
		{"argb32 tiff", store.Format32bppARGB, 200, "argb.tiff", store.Format32bppARGB},
		{"opaque argb32 png", store.Format32bppARGB, 255, "opaque.png", store.Format32bppARGB},
		{"opaque argb32 tiff", store.Format32bppARGB, 255, "opaque.tiff", store.Format32bppARGB},
		{"rgb32 png", store.Format32bppRGB, 255, "rgb32.png", store.Format32bppARGB},
		{"rgb32 tiff", store.Format32bppRGB, 255, "rgb32.tiff", store.Format32bppARGB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuffer(t, 4, 3, tt.format)
			for y := 0; y < 3; y++ {
				for x := 0; x < 4; x++ {
					b.SetPixel(x, y, ARGB(tt.alpha, uint8(60*x+1), uint8(40*y), uint8(x*y*20)))
				}
			}

			path := filepath.Join(dir, tt.file)
			require.NoError(t, b.Save(path, true))
			require.True(t, b.Locked())

			loaded, err := Open(path)
			require.NoError(t, err)
			defer loaded.Close()

			assert.Equal(t, tt.want, loaded.PixelFormat())
			assert.Equal(t, b.BitsPerPixel(), loaded.BitsPerPixel())
			assert.Equal(t, b.Bytes(), loaded.Bytes())
		})
	}
}

func TestSave_LosslessWithoutWrites(t *testing.T) {
	dir := t.TempDir()
	formats := []store.PixelFormat{store.Format8bppGray, store.Format24bppRGB, store.Format32bppRGB, store.Format32bppARGB}

	for _, format := range formats {
		for _, enc := range []store.Encoding{store.PNG, store.BMP, store.TIFF} {
			if !enc.Lossless(format) {
				continue
			}
			t.Run(format.String()+"/"+enc.String(), func(t *testing.T) {
				b := newBuffer(t, 2, 2, format)
				b.Fill(RGB(10, 20, 30))

				path := filepath.Join(dir, format.String()+"."+enc.String())
				require.NoError(t, b.Save(path, true))

				loaded, err := Open(path)
				require.NoError(t, err)
				defer loaded.Close()

				assert.Equal(t, b.BitsPerPixel(), loaded.BitsPerPixel())
				assert.Equal(t, b.Bytes(), loaded.Bytes())
			})
		}
	}
}

func TestSave_NoRelock(t *testing.T) {
	b := newBuffer(t, 1, 1, store.Format24bppRGB)

	require.NoError(t, b.Save(filepath.Join(t.TempDir(), "out.png"), false))
	assert.False(t, b.Locked())

	// saving again from the unlocked state is allowed
	require.NoError(t, b.Save(filepath.Join(t.TempDir(), "again.png"), true))
	assert.True(t, b.Locked())
}

func TestSave_CodecFailureLeavesUnlocked(t *testing.T) {
	b := newBuffer(t, 2, 2, store.Format32bppARGB)
	b.SetPixel(0, 0, ARGB(1, 2, 3, 4))

	err := b.Save(filepath.Join(t.TempDir(), "no", "such", "dir.png"), true)
	require.ErrorIs(t, err, store.ErrCodec)
	assert.False(t, b.Locked())

	err = b.Save(filepath.Join(t.TempDir(), "out.unknown"), true)
	require.ErrorIs(t, err, store.ErrCodec)
	assert.False(t, b.Locked())

	// the write was committed before the encoder ran
	require.NoError(t, b.Lock())
	assert.Equal(t, ARGB(1, 2, 3, 4), b.Pixel(0, 0))
}

func TestSaveTo_Decode(t *testing.T) {
	b := newBuffer(t, 2, 1, store.Format24bppRGB)
	b.SetPixel(0, 0, RGB(255, 0, 0))
	b.SetPixel(1, 0, RGB(0, 0, 255))

	var buf bytes.Buffer
	require.NoError(t, b.SaveTo(&buf, store.PNG, true))
	assert.True(t, b.Locked())

	decoded, err := Decode(&buf)
	require.NoError(t, err)
	defer decoded.Close()

	assert.Equal(t, RGB(255, 0, 0), decoded.Pixel(0, 0))
	assert.Equal(t, RGB(0, 0, 255), decoded.Pixel(1, 0))
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{0x89, 'P', 'N', 'G'}))
	require.ErrorIs(t, err, store.ErrCodec)

	_, err = Open(filepath.Join(t.TempDir(), "missing.png"))
	require.ErrorIs(t, err, store.ErrCodec)
}

func TestClose(t *testing.T) {
	b, err := New(2, 2, store.Format8bppGray)
	require.NoError(t, err)
	bm := b.Backing().(*store.Bitmap)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	assert.Nil(t, b.Backing())
	assert.Nil(t, b.Bytes())
	assert.False(t, b.Locked())

	require.ErrorIs(t, b.Lock(), ErrClosed)
	require.ErrorIs(t, b.Unlock(), ErrClosed)
	require.ErrorIs(t, b.Save("x.png", true), ErrClosed)

	next, err := store.New(1, 1, store.Format8bppGray)
	require.NoError(t, err)
	defer next.Close()
	require.ErrorIs(t, b.Load(next), ErrClosed)

	_, err = bm.LockBits(bm.Bounds(), store.ReadWrite)
	require.ErrorIs(t, err, store.ErrClosed)
}

func TestFill(t *testing.T) {
	for _, format := range []store.PixelFormat{store.Format8bppGray, store.Format24bppRGB, store.Format32bppARGB} {
		t.Run(format.String(), func(t *testing.T) {
			b := newBuffer(t, 5, 3, format)
			c := ARGB(0x80, 0x10, 0x20, 0x30)
			b.Fill(c)

			want := b.Pixel(0, 0)
			for y := 0; y < 3; y++ {
				for x := 0; x < 5; x++ {
					require.Equal(t, want, b.Pixel(x, y))
				}
			}
		})
	}
}

func TestImageInterfaces(t *testing.T) {
	b := newBuffer(t, 2, 2, store.Format32bppARGB)

	b.Set(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	assert.Equal(t, ARGB(40, 10, 20, 30), b.Pixel(1, 0))
	assert.Equal(t, ARGB(40, 10, 20, 30), b.At(1, 0))

	// out of range is tolerated through the image interfaces
	b.Set(-1, 0, White)
	b.Set(2, 2, White)
	assert.Equal(t, Color{}, b.At(5, 5))
	assert.Equal(t, image.Rect(0, 0, 2, 2), b.Bounds())
	assert.Equal(t, ColorModel, b.ColorModel())

	// usable as a draw target
	src := image.NewUniform(color.RGBA{R: 255, A: 255})
	draw.Draw(b, image.Rect(0, 1, 2, 2), src, image.Point{}, draw.Src)
	assert.Equal(t, RGB(255, 0, 0), b.Pixel(0, 1))
	assert.Equal(t, RGB(255, 0, 0), b.Pixel(1, 1))
}
