// Package detect extracts the board quadrilateral from a saturation mask,
//. It sits between internal/vision/imgproc (which builds
// the mask) and internal/vision/homography (which solves and applies the
// perspective transform the detected quad implies).
package detect

import (
	"fmt"
	"math"

	"github.com/badukstudy/aicore/internal/vision/homography"
	"github.com/badukstudy/aicore/internal/vision/imgproc"
)

// Quad is the four detected board corners in TL,TR,BR,BL order.
type Quad struct {
	TL, TR, BR, BL homography.Point
}

const minBoundaryPixels = 20
const minAreaFraction = 0.05

// FromMask walks the boundary of m (pixels that are set but have at least
// one unset 4-neighbour) and extracts the board quadrilateral by corner
// extremes.4: TL = argmin(x+y), BR = argmax(x+y),
// TR = argmax(x-y), BL = argmin(x-y).
func FromMask(m *imgproc.Mask) (Quad, error) {
	boundary := boundaryPixels(m)
	if len(boundary) < minBoundaryPixels {
		return Quad{}, fmt.Errorf("detect: only %d boundary pixels, need at least %d", len(boundary), minBoundaryPixels)
	}

	tl := boundary[0]
	br := boundary[0]
	tr := boundary[0]
	bl := boundary[0]
	for _, p := range boundary[1:] {
		if p.X+p.Y < tl.X+tl.Y {
			tl = p
		}
		if p.X+p.Y > br.X+br.Y {
			br = p
		}
		if p.X-p.Y > tr.X-tr.Y {
			tr = p
		}
		if p.X-p.Y < bl.X-bl.Y {
			bl = p
		}
	}

	quad := Quad{
		TL: homography.Point{X: float64(tl.X), Y: float64(tl.Y)},
		TR: homography.Point{X: float64(tr.X), Y: float64(tr.Y)},
		BR: homography.Point{X: float64(br.X), Y: float64(br.Y)},
		BL: homography.Point{X: float64(bl.X), Y: float64(bl.Y)},
	}

	area := quadArea(quad)
	imageArea := float64(m.Width * m.Height)
	if area < minAreaFraction*imageArea {
		return Quad{}, fmt.Errorf("detect: quad area %.0f below %.1f%% of image area %.0f", area, minAreaFraction*100, imageArea)
	}
	if !isConvex(quad) {
		return Quad{}, fmt.Errorf("detect: extracted quad is not convex")
	}

	return orderByAngle(quad), nil
}

type px struct{ X, Y int }

func boundaryPixels(m *imgproc.Mask) []px {
	var out []px
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if !m.At(x, y) {
				continue
			}
			if !m.At(x-1, y) || !m.At(x+1, y) || !m.At(x, y-1) || !m.At(x, y+1) {
				out = append(out, px{x, y})
			}
		}
	}
	return out
}

// quadArea computes the shoelace-formula area of the quad, taken in the
// TL,TR,BR,BL winding order.
func quadArea(q Quad) float64 {
	pts := [4]homography.Point{q.TL, q.TR, q.BR, q.BL}
	var sum float64
	for i := 0; i < 4; i++ {
		a, b := pts[i], pts[(i+1)%4]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) / 2
}

func isConvex(q Quad) bool {
	pts := [4]homography.Point{q.TL, q.TR, q.BR, q.BL}
	var sign float64
	for i := 0; i < 4; i++ {
		a := pts[i]
		b := pts[(i+1)%4]
		c := pts[(i+2)%4]
		cross := (b.X-a.X)*(c.Y-b.Y) - (b.Y-a.Y)*(c.X-b.X)
		if cross == 0 {
			continue
		}
		if sign == 0 {
			sign = cross
		} else if (cross > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

// orderByAngle re-orders the four corners by angle around their centroid,
// using the minimum coordinate-sum corner as the TL anchor, then walking
// TL,TR,BR,BL by angle around the centroid.
func orderByAngle(q Quad) Quad {
	pts := [4]homography.Point{q.TL, q.TR, q.BR, q.BL}
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= 4
	cy /= 4

	type withAngle struct {
		p homography.Point
		angle float64
	}
	withAngles := make([]withAngle, 4)
	anchor := 0
	for i, p := range pts {
		withAngles[i] = withAngle{p: p, angle: math.Atan2(p.Y-cy, p.X-cx)}
		if p.X+p.Y < pts[anchor].X+pts[anchor].Y {
			anchor = i
		}
	}

	anchorAngle := withAngles[anchor].angle
	for i := range withAngles {
		d := withAngles[i].angle - anchorAngle
		for d < 0 {
			d += 2 * math.Pi
		}
		withAngles[i].angle = d
	}

	for i := 1; i < 4; i++ {
		for j := i; j > 0 && withAngles[j-1].angle > withAngles[j].angle; j-- {
			withAngles[j-1], withAngles[j] = withAngles[j], withAngles[j-1]
		}
	}

	return Quad{TL: withAngles[0].p, TR: withAngles[1].p, BR: withAngles[2].p, BL: withAngles[3].p}
}
