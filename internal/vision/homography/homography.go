// Package homography computes the 4-point direct linear transform
// between a detected board quad and a square output grid, and the
// inverse perspective warp that consumes it, following a gonum/mat
// linear-solve shape for point-correspondence fitting: an 8x8 Gaussian
// elimination with a fixed pivot failure threshold rather than an
// affine least-squares fit, since all four correspondences are exact.
package homography

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Point is a 2D image-plane coordinate.
type Point struct {
	X, Y float64
}

// Matrix is a row-major 3x3 homogeneous transform.
type Matrix [9]float64

// Apply maps p through m, dividing by the homogeneous coordinate.
func (m Matrix) Apply(p Point) Point {
	w := m[6]*p.X + m[7]*p.Y + m[8]
	x := (m[0]*p.X + m[1]*p.Y + m[2]) / w
	y := (m[3]*p.X + m[4]*p.Y + m[5]) / w
	return Point{X: x, Y: y}
}

// Solve computes the 3x3 homography mapping src[i] to dst[i] for the four
// corners in (TL,TR,BR,BL) order, via an 8-equation linear system (two
// rows per corner, h33 fixed at 1), solved by Gaussian elimination with
// partial pivoting. It fails if any pivot magnitude drops to 1e-12 or
// below.
func Solve(src, dst [4]Point) (Matrix, error) {
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		xp, yp := dst[i].X, dst[i].Y

		// xp = (h0*x + h1*y + h2) / (h6*x + h7*y + 1)
		a.SetRow(i*2, []float64{x, y, 1, 0, 0, 0, -x * xp, -y * xp})
		b.SetVec(i*2, xp)

		// yp = (h3*x + h4*y + h5) / (h6*x + h7*y + 1)
		a.SetRow(i*2+1, []float64{0, 0, 0, x, y, 1, -x * yp, -y * yp})
		b.SetVec(i*2+1, yp)
	}

	h, err := gaussianEliminate(a, b)
	if err != nil {
		return Matrix{}, err
	}

	var m Matrix
	copy(m[:8], h)
	m[8] = 1
	return m, nil
}

// gaussianEliminate solves a*x = b in place via Gaussian elimination with
// partial pivoting, failing cleanly if a pivot's magnitude is at most
// 1e-12 (a near-singular or degenerate point configuration).
func gaussianEliminate(a *mat.Dense, b *mat.VecDense) ([]float64, error) {
	n, _ := a.Dims()
	aug := mat.NewDense(n, n, nil)
	aug.Copy(a)
	rhs := make([]float64, n)
	for i := 0; i < n; i++ {
		rhs[i] = b.AtVec(i)
	}

	for col := 0; col < n; col++ {
		pivotRow := col
		pivotVal := aug.At(col, col)
		for r := col + 1; r < n; r++ {
			if v := aug.At(r, col); abs(v) > abs(pivotVal) {
				pivotRow, pivotVal = r, v
			}
		}
		if abs(pivotVal) <= 1e-12 {
			return nil, fmt.Errorf("homography: degenerate point configuration (pivot %.3e at column %d)", pivotVal, col)
		}
		if pivotRow != col {
			swapRows(aug, col, pivotRow)
			rhs[col], rhs[pivotRow] = rhs[pivotRow], rhs[col]
		}

		pivot := aug.At(col, col)
		for r := col + 1; r < n; r++ {
			factor := aug.At(r, col) / pivot
			if factor == 0 {
				continue
			}
			for c := col; c < n; c++ {
				aug.Set(r, c, aug.At(r, c)-factor*aug.At(col, c))
			}
			rhs[r] -= factor * rhs[col]
		}
	}

	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := rhs[row]
		for c := row + 1; c < n; c++ {
			sum -= aug.At(row, c) * x[c]
		}
		x[row] = sum / aug.At(row, row)
	}
	return x, nil
}

func swapRows(m *mat.Dense, i, j int) {
	_, cols := m.Dims()
	for c := 0; c < cols; c++ {
		vi, vj := m.At(i, c), m.At(j, c)
		m.Set(i, c, vj)
		m.Set(j, c, vi)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
