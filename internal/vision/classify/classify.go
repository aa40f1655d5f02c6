// Package classify implements the stone classifier: disc sampling at
// every grid intersection, a local-relative transform, 1-D k-means
// clustering into black/board/white, and calibration-hint overrides. The
// disc-sampling-plus-threshold shape (mean/stddev of a small region
// around each intersection, then bucket by brightness) is generalised
// here into k-means clustering over a local-relative normalisation. The
// k-means loop itself (kmeans.go) is plain scalar arithmetic over three
// centroids, so it stays on sort.Float64s rather than reaching for
// gonum/mat, which internal/vision/homography uses for the genuinely
// matrix-shaped corner-solve.
package classify

import (
	"math"

	"github.com/badukstudy/aicore/internal/board"
	"github.com/badukstudy/aicore/internal/vision/homography"
	"github.com/badukstudy/aicore/internal/vision/imgproc"
)

// Hint is a caller-supplied calibration point: the classifier will emit
// exactly this value at (Col,Row) regardless of what the clustering says.
type Hint struct {
	Col, Row int
	Color board.Side
}

// StonePoint is one classified grid intersection.
type StonePoint struct {
	Col, Row int
	Color board.Side
}

// gridPoint returns the warped-image coordinate of intersection (col,row)
// out of an boardSize x boardSize grid, bilinearly parameterised over
// corners — by default the image's own four corners, or a caller-supplied
// override quad ("optionally refined by a grid-corners
// override that bilinearly parameterises an inner quad").
func gridPoint(col, row, boardSize int, corners [4]homography.Point) homography.Point {
	u := float64(col) / float64(boardSize-1)
	v := float64(row) / float64(boardSize-1)

	top := lerpPoint(corners[0], corners[1], u) // TL -> TR
	bottom := lerpPoint(corners[3], corners[2], u) // BL -> BR
	return lerpPoint(top, bottom, v)
}

func lerpPoint(a, b homography.Point, t float64) homography.Point {
	return homography.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// discStats returns the mean and standard deviation of grayscale
// intensity inside a disc of the given radius centred at p.
func discStats(g *imgproc.Grayscale, p homography.Point, radius float64) (mean, stddev float64) {
	var sum, sumSq float64
	var n int
	r := int(radius) + 1
	cx, cy := int(p.X), int(p.Y)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if float64(dx*dx+dy*dy) > radius*radius {
				continue
			}
			x, y := cx+dx, cy+dy
			if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
				continue
			}
			v := float64(g.At(x, y))
			sum += v
			sumSq += v * v
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	mean = sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}
