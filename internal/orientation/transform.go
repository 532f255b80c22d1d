// Package orientation finds the rotation and mirror state at which an
// identity card image becomes readable. It scores recognized text for each
// of the eight rotation/flip combinations and picks the best candidate.
package orientation

import (
	"image"
	"image/draw"
)

// Flip is the mirror state applied to a candidate image.
type Flip int

const (
	FlipNone Flip = iota
	FlipHorizontal
)

func (f Flip) String() string {
	if f == FlipHorizontal {
		return "horizontal"
	}
	return "none"
}

// Rotations are the angles tried, in degrees counterclockwise.
var Rotations = []int{0, 90, 180, 270}

// Transform returns a copy of src rotated by angle degrees counterclockwise
// and then mirrored per flip. Angle must be a multiple of 90.
func Transform(src image.Image, angle int, flip Flip) image.Image {
	out := src
	for i := 0; i < (angle/90)%4; i++ {
		out = rotate90(out)
	}
	if flip == FlipHorizontal {
		out = flipHorizontal(out)
	}
	if out == src {
		out = clone(src)
	}
	return out
}

// rotate90 rotates src 90 degrees counterclockwise.
func rotate90(src image.Image) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(y, w-1-x, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// flipHorizontal mirrors src across its vertical axis.
func flipHorizontal(src image.Image) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(w-1-x, y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

func clone(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
