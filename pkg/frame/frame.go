// Package frame defines the raw image frame handed from a capture device to
// the seed condenser.
//
// A RawFrame carries only pixel data and the metadata needed to interpret it.
// Capture-time details such as timestamps or device identifiers never live
// here, so two frames with identical pixels are interchangeable.
package frame

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// Sentinel errors for frame validation.
var (
	// ErrMalformedFrame is returned when the pixel buffer disagrees with the
	// declared dimensions and format.
	ErrMalformedFrame = errors.New("frame: malformed frame")

	// ErrUnsupportedFormat is returned for pixel formats that are not recognized
	// or cannot be processed.
	ErrUnsupportedFormat = errors.New("frame: unsupported pixel format")
)

// PixelFormat identifies the channel layout of a pixel buffer.
type PixelFormat string

const (
	// RGB8 is 8-bit red, green, blue. 3 bytes per pixel.
	RGB8 PixelFormat = "rgb8"
	// RGBA8 is 8-bit red, green, blue, alpha (non-premultiplied). 4 bytes per pixel.
	RGBA8 PixelFormat = "rgba8"
	// YUV is packed YUYV 4:2:2 as delivered by most UVC webcams. 2 bytes per pixel.
	YUV PixelFormat = "yuv"
)

// BytesPerPixel returns the buffer stride of a single pixel for the format.
func BytesPerPixel(f PixelFormat) (int, error) {
	switch f {
	case RGB8:
		return 3, nil
	case RGBA8:
		return 4, nil
	case YUV:
		return 2, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}

// RawFrame is one captured image.
type RawFrame struct {
	Width  int
	Height int
	Format PixelFormat

	// Pix holds pixels in row-major order, channels in format order.
	Pix []byte
}

// Validate checks that the buffer length equals Width*Height*BytesPerPixel.
func (f RawFrame) Validate() error {
	bpp, err := BytesPerPixel(f.Format)
	if err != nil {
		return err
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrMalformedFrame, f.Width, f.Height)
	}
	if f.Width > math.MaxInt/bpp/f.Height {
		return fmt.Errorf("%w: dimensions %dx%d overflow the buffer size", ErrMalformedFrame, f.Width, f.Height)
	}
	want := f.Width * f.Height * bpp
	if len(f.Pix) != want {
		return fmt.Errorf("%w: %dx%d %s needs %d bytes, got %d",
			ErrMalformedFrame, f.Width, f.Height, f.Format, want, len(f.Pix))
	}
	return nil
}

// Stride returns the number of bytes in one row.
func (f RawFrame) Stride() int {
	bpp, err := BytesPerPixel(f.Format)
	if err != nil {
		return 0
	}
	return f.Width * bpp
}

// FromImage converts a decoded image into an RGBA8 frame with
// non-premultiplied alpha, rows from the top of the bounds down.
func FromImage(img image.Image) RawFrame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := RawFrame{Width: w, Height: h, Format: RGBA8, Pix: make([]byte, w*h*4)}

	if n, ok := img.(*image.NRGBA); ok {
		stride := out.Stride()
		for y := 0; y < h; y++ {
			src := n.Pix[n.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(out.Pix[y*stride:(y+1)*stride], src[:stride])
		}
		return out
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.Pix[i] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = c.A
			i += 4
		}
	}
	return out
}

// Image returns the frame as an *image.NRGBA. RGB8 frames become opaque.
func (f RawFrame) Image() (*image.NRGBA, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	switch f.Format {
	case RGBA8:
		copy(img.Pix, f.Pix)
	case RGB8:
		for src, dst := 0, 0; src < len(f.Pix); src, dst = src+3, dst+4 {
			img.Pix[dst] = f.Pix[src]
			img.Pix[dst+1] = f.Pix[src+1]
			img.Pix[dst+2] = f.Pix[src+2]
			img.Pix[dst+3] = 0xff
		}
	default:
		return nil, fmt.Errorf("%w: cannot render %s as an image", ErrUnsupportedFormat, f.Format)
	}
	return img, nil
}
