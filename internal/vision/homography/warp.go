package homography

import (
	"errors"
	"image"
	"math"
)

// Invert returns m^-1, the adjugate divided by the determinant.
func (m Matrix) Invert() (Matrix, error) {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if abs(det) <= 1e-12 {
		return Matrix{}, errSingular
	}

	inv := 1 / det
	return Matrix{
		(e*i - f*h) * inv, (c*h - b*i) * inv, (b*f - c*e) * inv,
		(f*g - d*i) * inv, (a*i - c*g) * inv, (c*d - a*f) * inv,
		(d*h - e*g) * inv, (b*g - a*h) * inv, (a*e - b*d) * inv,
	}, nil
}

var errSingular = errors.New("homography: matrix is singular")

// Warp produces an outputSize x outputSize RGBA square by inverse-mapping
// every destination pixel through inv (the inverse of the forward
// homography) into src and bilinearly interpolating.
// Pixels whose source falls outside src's bounds take the nearest clamped
// sample.
func Warp(src *image.RGBA, inv Matrix, outputSize int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, outputSize, outputSize))
	b := src.Bounds()

	for y := 0; y < outputSize; y++ {
		for x := 0; x < outputSize; x++ {
			p := inv.Apply(Point{X: float64(x), Y: float64(y)})
			r, g, bl, a := bilinear(src, b, p.X, p.Y)
			off := dst.PixOffset(x, y)
			dst.Pix[off] = r
			dst.Pix[off+1] = g
			dst.Pix[off+2] = bl
			dst.Pix[off+3] = a
		}
	}
	return dst
}

func bilinear(src *image.RGBA, b image.Rectangle, fx, fy float64) (r, g, bl, a uint8) {
	clampX := func(x int) int {
		if x < b.Min.X {
			return b.Min.X
		}
		if x >= b.Max.X {
			return b.Max.X - 1
		}
		return x
	}
	clampY := func(y int) int {
		if y < b.Min.Y {
			return b.Min.Y
		}
		if y >= b.Max.Y {
			return b.Max.Y - 1
		}
		return y
	}

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	x1, y1 := x0+1, y0+1
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	x0, x1 = clampX(x0), clampX(x1)
	y0, y1 = clampY(y0), clampY(y1)

	sample := func(x, y int) (float64, float64, float64, float64) {
		off := src.PixOffset(x, y)
		return float64(src.Pix[off]), float64(src.Pix[off+1]), float64(src.Pix[off+2]), float64(src.Pix[off+3])
	}

	r00, g00, b00, a00 := sample(x0, y0)
	r10, g10, b10, a10 := sample(x1, y0)
	r01, g01, b01, a01 := sample(x0, y1)
	r11, g11, b11, a11 := sample(x1, y1)

	lerp := func(v00, v10, v01, v11 float64) uint8 {
		top := v00*(1-dx) + v10*dx
		bot := v01*(1-dx) + v11*dx
		return uint8(top*(1-dy) + bot*dy)
	}

	return lerp(r00, r10, r01, r11), lerp(g00, g10, g01, g11), lerp(b00, b10, b01, b11), lerp(a00, a10, a01, a11)
}
