package store

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/rcarmo/lockbits/internal/codec"
)

// Image converts native memory into a standard image: *image.Gray for
// Format8bppGray, *image.NRGBA for Format32bppARGB and an opaque
// *image.RGBA for everything else. The result does not alias the bitmap.
func (b *Bitmap) Image() (image.Image, error) {
	if b.closed {
		return nil, ErrClosed
	}

	rect := b.Bounds()

	switch b.format {
	case Format8bppGray:
		dst := image.NewGray(rect)
		for y := 0; y < b.height; y++ {
			copy(dst.Pix[y*dst.Stride:], b.row(y))
		}
		return dst, nil

	case Format32bppARGB:
		dst := image.NewNRGBA(rect)
		for y := 0; y < b.height; y++ {
			codec.BGRA32ToNRGBA(b.row(y), dst.Pix[y*dst.Stride:(y+1)*dst.Stride])
		}
		return dst, nil
	}

	var convert func(src, dst []byte)
	switch b.format {
	case Format16bppRGB555:
		convert = codec.RGB555ToRGBA
	case Format16bppRGB565:
		convert = codec.RGB565ToRGBA
	case Format24bppRGB:
		convert = codec.BGR24ToRGBA
	case Format32bppRGB:
		convert = codec.BGRX32ToRGBA
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, b.format)
	}

	dst := image.NewRGBA(rect)
	for y := 0; y < b.height; y++ {
		convert(b.row(y), dst.Pix[y*dst.Stride:(y+1)*dst.Stride])
	}
	return dst, nil
}

// NativeFormat picks the layout FromImage uses for img: gray images and
// gray palettes map to Format8bppGray, images with an explicit straight
// alpha channel to Format32bppARGB, other opaque images to Format24bppRGB
// and everything else to Format32bppARGB.
func NativeFormat(img image.Image) PixelFormat {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return Format8bppGray
	case *image.Paletted:
		if isGrayPalette(m.Palette) {
			return Format8bppGray
		}
	case *image.NRGBA, *image.NRGBA64:
		return Format32bppARGB
	}

	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return Format24bppRGB
	}
	return Format32bppARGB
}

func isGrayPalette(p color.Palette) bool {
	if len(p) == 0 {
		return false
	}
	for _, c := range p {
		r, g, b, a := c.RGBA()
		if r != g || g != b || a != 0xFFFF {
			return false
		}
	}
	return true
}

// FromImage copies img into a new bitmap in the layout chosen by
// NativeFormat.
func FromImage(img image.Image) (*Bitmap, error) {
	return FromImageAs(img, NativeFormat(img))
}

// FromImageAs copies img into a new bitmap with the given layout, converting
// colors as needed. Alpha is dropped for formats without it.
func FromImageAs(img image.Image, format PixelFormat) (*Bitmap, error) {
	src := img.Bounds()
	b, err := New(src.Dx(), src.Dy(), format)
	if err != nil {
		return nil, err
	}

	if format == Format8bppGray {
		fillGray(b, img)
		return b, nil
	}

	if format == Format32bppARGB {
		nrgba, ok := img.(*image.NRGBA)
		if !ok || nrgba.Rect.Min != (image.Point{}) {
			nrgba = image.NewNRGBA(b.Bounds())
			draw.Draw(nrgba, nrgba.Rect, img, src.Min, draw.Src)
		}
		for y := 0; y < b.height; y++ {
			codec.NRGBAToBGRA32(nrgba.Pix[y*nrgba.Stride:(y+1)*nrgba.Stride], b.row(y))
		}
		return b, nil
	}

	var convert func(src, dst []byte)
	switch format {
	case Format16bppRGB555:
		convert = codec.RGBAToRGB555
	case Format16bppRGB565:
		convert = codec.RGBAToRGB565
	case Format24bppRGB:
		convert = codec.RGBAToBGR24
	case Format32bppRGB:
		convert = codec.RGBAToBGRX32
	}

	// Flatten onto opaque black so premultiplied and straight alpha agree.
	rgba := image.NewRGBA(b.Bounds())
	draw.Draw(rgba, rgba.Rect, image.Black, image.Point{}, draw.Src)
	draw.Draw(rgba, rgba.Rect, img, src.Min, draw.Over)
	for y := 0; y < b.height; y++ {
		convert(rgba.Pix[y*rgba.Stride:(y+1)*rgba.Stride], b.row(y))
	}
	return b, nil
}

func fillGray(b *Bitmap, img image.Image) {
	src := img.Bounds()

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < b.height; y++ {
			off := g.PixOffset(src.Min.X, src.Min.Y+y)
			copy(b.row(y), g.Pix[off:off+b.width])
		}
		return
	}

	for y := 0; y < b.height; y++ {
		row := b.row(y)
		for x := range row {
			row[x] = color.GrayModel.Convert(img.At(src.Min.X+x, src.Min.Y+y)).(color.Gray).Y
		}
	}
}
