package imgproc

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestSaturationZeroWhenMaxZero(t *testing.T) {
	img := solidImage(4, 4, color.RGBA{0, 0, 0, 255})
	if got := Saturation(img, 1, 1); got != 0 {
		t.Fatalf("Saturation of black pixel = %v, want 0", got)
	}
}

func TestSaturationMaskThresholds(t *testing.T) {
	img := solidImage(4, 4, color.RGBA{R: 200, G: 50, B: 50, A: 255})
	mask := SaturationMask(img)
	if !mask.At(1, 1) {
		t.Fatalf("expected a saturated mid-brightness red pixel to be masked in")
	}

	dark := solidImage(4, 4, color.RGBA{R: 5, G: 1, B: 1, A: 255})
	darkMask := SaturationMask(dark)
	if darkMask.At(1, 1) {
		t.Fatalf("expected a too-dark pixel to be excluded by the brightness gate")
	}
}

func TestDilateGrowsBySingleIsolatedPixel(t *testing.T) {
	m := NewMask(5, 5)
	m.Set(2, 2, true)
	out := Dilate(m, 1)
	if !out.At(1, 2) || !out.At(3, 2) || !out.At(2, 1) || !out.At(2, 3) {
		t.Fatalf("expected radius-1 dilation to light up the 4 neighbours of (2,2)")
	}
	if out.At(0, 0) {
		t.Fatalf("did not expect dilation to reach the far corner")
	}
}

func TestToGrayscaleAveragesChannels(t *testing.T) {
	img := solidImage(2, 2, color.RGBA{R: 30, G: 60, B: 90, A: 255})
	g := ToGrayscale(img)
	if g.At(0, 0) != 60 {
		t.Fatalf("ToGrayscale = %d, want 60", g.At(0, 0))
	}
}
