package frame

import (
	"fmt"
	"image/png"
	"io"
)

// EncodePNG writes the frame as a PNG image.
func EncodePNG(w io.Writer, f RawFrame) error {
	img, err := f.Image()
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// DecodePNG reads a PNG image into an RGBA8 frame.
func DecodePNG(r io.Reader) (RawFrame, error) {
	img, err := png.Decode(r)
	if err != nil {
		return RawFrame{}, fmt.Errorf("decode png: %w", err)
	}
	return FromImage(img), nil
}
