package orientation

import (
	"image"
	"image/color"
	"testing"
)

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func samePixels(t *testing.T, a, b image.Image) bool {
	t.Helper()
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return false
	}
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			ar, ag, abl, aa := a.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			br, bg, bbl, ba := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			if ar != br || ag != bg || abl != bbl || aa != ba {
				return false
			}
		}
	}
	return true
}

func TestTransformRotationSwapsDimensions(t *testing.T) {
	src := gradientImage(4, 2)

	for _, angle := range Rotations {
		got := Transform(src, angle, FlipNone)
		b := got.Bounds()
		wantW, wantH := 4, 2
		if angle == 90 || angle == 270 {
			wantW, wantH = 2, 4
		}
		if b.Dx() != wantW || b.Dy() != wantH {
			t.Errorf("angle %d: bounds %dx%d, want %dx%d", angle, b.Dx(), b.Dy(), wantW, wantH)
		}
	}
}

func TestTransformQuarterTurnMapsPixels(t *testing.T) {
	src := gradientImage(3, 2)
	dst := Transform(src, 90, FlipNone)

	// A counterclockwise quarter turn sends (x, y) to (y, w-1-x).
	w := src.Bounds().Dx()
	for y := 0; y < src.Bounds().Dy(); y++ {
		for x := 0; x < w; x++ {
			sr, sg, sb, sa := src.At(x, y).RGBA()
			dr, dg, db, da := dst.At(y, w-1-x).RGBA()
			if sr != dr || sg != dg || sb != db || sa != da {
				t.Fatalf("pixel (%d,%d) not mapped to (%d,%d)", x, y, y, w-1-x)
			}
		}
	}
}

func TestTransformFullTurnIsIdentity(t *testing.T) {
	src := gradientImage(5, 3)

	out := image.Image(src)
	for i := 0; i < 4; i++ {
		out = Transform(out, 90, FlipNone)
	}
	if !samePixels(t, src, out) {
		t.Error("four quarter turns did not restore the image")
	}
}

func TestTransformDoubleFlipIsIdentity(t *testing.T) {
	src := gradientImage(5, 3)

	out := Transform(Transform(src, 0, FlipHorizontal), 0, FlipHorizontal)
	if !samePixels(t, src, out) {
		t.Error("two horizontal flips did not restore the image")
	}
}

func TestTransformIdentityReturnsCopy(t *testing.T) {
	src := gradientImage(4, 4)

	out := Transform(src, 0, FlipNone)
	if out == image.Image(src) {
		t.Fatal("Transform returned the source image")
	}
	if !samePixels(t, src, out) {
		t.Error("identity transform changed pixels")
	}
}

func TestFlipString(t *testing.T) {
	if FlipNone.String() != "none" {
		t.Errorf("FlipNone.String() = %q", FlipNone.String())
	}
	if FlipHorizontal.String() != "horizontal" {
		t.Errorf("FlipHorizontal.String() = %q", FlipHorizontal.String())
	}
}
