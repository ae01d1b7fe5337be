package store

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// Registered for Decode only.
	_ "golang.org/x/image/webp"

	"github.com/rcarmo/lockbits/internal/logging"
)

// Encoding identifies an output codec.
type Encoding int

const (
	EncodingUnknown Encoding = iota
	PNG
	JPEG
	GIF
	BMP
	TIFF
)

var encodingNames = map[Encoding]string{
	PNG:  "png",
	JPEG: "jpeg",
	GIF:  "gif",
	BMP:  "bmp",
	TIFF: "tiff",
}

var encodingExts = map[string]Encoding{
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".gif":  GIF,
	".bmp":  BMP,
	".tif":  TIFF,
	".tiff": TIFF,
}

func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return "unknown"
}

// Lossless reports whether saving a bitmap of format f with e and opening
// the file again yields the same pixel bytes at the same bit depth. A
// Format32bppRGB bitmap comes back as Format32bppARGB with its pad byte as
// alpha. BMP carries no alpha the decoder honours, so it keeps 8 and 24 bpp
// only.
func (e Encoding) Lossless(f PixelFormat) bool {
	switch f.Bits() {
	case 8, 24:
		return e == PNG || e == BMP || e == TIFF
	case 32:
		return e == PNG || e == TIFF
	}
	return false
}

// EncodingFromPath picks the encoding for a file name by its extension.
func EncodingFromPath(path string) (Encoding, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if enc, ok := encodingExts[ext]; ok {
		return enc, nil
	}
	return EncodingUnknown, fmt.Errorf("%w: extension %q", ErrUnknownEncoding, ext)
}

// ParseEncoding resolves an encoding name such as "png" or "jpg".
func ParseEncoding(name string) (Encoding, error) {
	return EncodingFromPath("." + strings.TrimPrefix(strings.TrimSpace(name), "."))
}

// EncodeOptions tunes the individual encoders.
type EncodeOptions struct {
	JPEGQuality     int
	PNGCompression  png.CompressionLevel
	TIFFCompression tiff.CompressionType
	TIFFPredictor   bool
}

// DefaultEncodeOptions returns the options new bitmaps start with.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		JPEGQuality:     90,
		PNGCompression:  png.DefaultCompression,
		TIFFCompression: tiff.Deflate,
		TIFFPredictor:   true,
	}
}

// Encode writes the bitmap to w.
func (b *Bitmap) Encode(w io.Writer, enc Encoding) error {
	img, err := b.Image()
	if err != nil {
		return err
	}
	if m, ok := img.(*image.RGBA); ok && b.format == Format32bppRGB {
		// opaque, so the premultiplied bytes are already straight
		img = &image.NRGBA{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect}
	}
	if err := encodeImage(w, img, enc, b.Options); err != nil {
		return err
	}

	logging.Debug("Store: encoded %dx%d %s as %s", b.width, b.height, b.format, enc)
	return nil
}

// Save encodes the bitmap to path, choosing the encoding from the
// extension. A partially written file is removed.
func (b *Bitmap) Save(path string) (err error) {
	if b.closed {
		return ErrClosed
	}

	enc, err := EncodingFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCodec, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrCodec, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	return b.Encode(f, enc)
}

// alphaImage reports itself as translucent so the PNG encoder writes an
// alpha channel even when every pixel is opaque.
type alphaImage struct {
	*image.NRGBA
}

func (alphaImage) Opaque() bool { return false }

// encodeImage writes img with enc. *image.NRGBA input always keeps four
// channels in PNG and TIFF output.
func encodeImage(w io.Writer, img image.Image, enc Encoding, opts EncodeOptions) error {
	var err error

	switch enc {
	case PNG:
		if m, ok := img.(*image.NRGBA); ok {
			img = alphaImage{m}
		}
		e := png.Encoder{CompressionLevel: opts.PNGCompression}
		err = e.Encode(w, img)
	case JPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: opts.JPEGQuality})
	case GIF:
		err = gif.Encode(w, img, nil)
	case BMP:
		err = bmp.Encode(w, img)
	case TIFF:
		err = tiff.Encode(w, img, &tiff.Options{
			Compression: opts.TIFFCompression,
			Predictor:   opts.TIFFPredictor,
		})
	default:
		return fmt.Errorf("%w: %v", ErrUnknownEncoding, enc)
	}

	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrCodec, enc, err)
	}
	return nil
}

// Decode reads any registered image format from r into a new bitmap.
func Decode(r io.Reader) (*Bitmap, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrCodec, err)
	}

	b, err := FromImage(img)
	if err != nil {
		return nil, err
	}

	logging.Debug("Store: decoded %s %dx%d as %s", name, b.width, b.height, b.format)
	return b, nil
}

// Open decodes the file at path into a new bitmap.
func Open(path string) (*Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCodec, err)
	}
	defer f.Close()

	b, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// IsCodecError reports whether err is a decode or encode failure.
func IsCodecError(err error) bool {
	return errors.Is(err, ErrCodec)
}
