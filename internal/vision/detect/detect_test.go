package detect

import (
	"testing"

	"github.com/badukstudy/aicore/internal/vision/imgproc"
)

func filledSquareMask(size, margin int) *imgproc.Mask {
	m := imgproc.NewMask(size, size)
	for y := margin; y < size-margin; y++ {
		for x := margin; x < size-margin; x++ {
			m.Set(x, y, true)
		}
	}
	return m
}

func TestFromMaskRejectsTooFewBoundaryPixels(t *testing.T) {
	m := imgproc.NewMask(10, 10)
	m.Set(5, 5, true)
	if _, err := FromMask(m); err == nil {
		t.Fatalf("expected an error for a mask with almost no boundary pixels")
	}
}

func TestFromMaskExtractsSquareCorners(t *testing.T) {
	m := filledSquareMask(40, 5)
	q, err := FromMask(m)
	if err != nil {
		t.Fatalf("FromMask: %v", err)
	}
	if q.TL.X >= q.TR.X {
		t.Fatalf("expected TL.X < TR.X, got TL=%v TR=%v", q.TL, q.TR)
	}
	if q.TL.Y >= q.BL.Y {
		t.Fatalf("expected TL.Y < BL.Y, got TL=%v BL=%v", q.TL, q.BL)
	}
}

func TestFromMaskRejectsTinyArea(t *testing.T) {
	// leaves a 6x6 filled square: 20 boundary pixels, enough to pass the
	// boundary-count check, but a quad area of 25, well under 5% of 40x40
	m := filledSquareMask(40, 17)
	if _, err := FromMask(m); err == nil {
		t.Fatalf("expected a tiny quad to be rejected on area")
	}
}
