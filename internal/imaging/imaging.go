// Package imaging loads card images and normalizes their size before
// recognition.
package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
)

// DefaultMaxDimension caps the longer image side before recognition. Larger
// scans slow Tesseract down without improving accuracy on card-sized text.
const DefaultMaxDimension = 1500

// ErrUnsupportedFormat is returned when the image data cannot be decoded.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Decode reads an image from r. PNG and JPEG are supported.
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return img, format, nil
}

// DecodeFile reads an image from the file at path.
func DecodeFile(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	return Decode(f)
}

// Downscale returns img resized so its longer side does not exceed maxDim,
// preserving aspect ratio. Images already within the limit are returned
// unchanged. Nearest-neighbor sampling is enough for OCR input.
func Downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}

	var dw, dh int
	if w >= h {
		dw = maxDim
		dh = h * maxDim / w
	} else {
		dh = maxDim
		dw = w * maxDim / h
	}
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		sy := b.Min.Y + y*h/dh
		for x := 0; x < dw; x++ {
			sx := b.Min.X + x*w/dw
			dst.Set(x, y, img.At(sx, sy))
		}
	}
	return dst
}

// WritePNG saves img to path. Used by debug tooling to inspect the
// orientation the selector settled on.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
