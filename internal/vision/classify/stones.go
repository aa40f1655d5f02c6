package classify

import (
	"math"

	"github.com/badukstudy/aicore/internal/board"
	"github.com/badukstudy/aicore/internal/vision/homography"
	"github.com/badukstudy/aicore/internal/vision/imgproc"
)

// Classify samples every intersection of a boardSize x boardSize grid in
// the warped image g and returns the classified points.
// gridCorners overrides the default "whole image" quad when supplied.
func Classify(g *imgproc.Grayscale, boardSize int, gridCorners *[4]homography.Point, hints []Hint) []StonePoint {
	corners := defaultCorners(g)
	if gridCorners != nil {
		corners = *gridCorners
	}

	cellSize := cellSpacing(corners, boardSize)
	radius := 0.35 * cellSize

	n := boardSize * boardSize
	points := make([]homography.Point, n)
	brightness := make([]float64, n)
	variance := make([]float64, n)
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			idx := row*boardSize + col
			p := gridPoint(col, row, boardSize, corners)
			mean, sd := discStats(g, p, radius)
			points[idx] = p
			brightness[idx] = mean
			variance[idx] = sd * sd
		}
	}

	relative := localRelative(brightness, boardSize)
	centroids := kmeans1D(relative)
	hintIndex := map[int]board.Side{}
	for _, h := range hints {
		if h.Col >= 0 && h.Col < boardSize && h.Row >= 0 && h.Row < boardSize {
			hintIndex[h.Row*boardSize+h.Col] = h.Color
		}
	}
	centroids = applyHintCentroids(centroids, relative, hints, boardSize)

	blackBoundary := (centroids[0] + centroids[1]) / 2
	whiteBoundary := (centroids[1] + centroids[2]) / 2
	spread := centroids[2] - centroids[0]
	hasBlack := (centroids[2]-centroids[0]) > 5 && (centroids[1]-centroids[0]) > 0.15*spread
	hasWhite := (centroids[2]-centroids[0]) > 5 && (centroids[2]-centroids[1]) > 0.15*spread

	medianVariance := median(variance)

	out := make([]StonePoint, 0, n)
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			idx := row*boardSize + col
			if hinted, ok := hintIndex[idx]; ok {
				out = append(out, StonePoint{Col: col, Row: row, Color: hinted})
				continue
			}

			outerRing := row == 0 || row == boardSize-1 || col == 0 || col == boardSize-1
			edgeMargin := 0.0
			if outerRing {
				edgeMargin = 0.10 * spread
			}

			color := board.Empty
			rel := relative[idx]
			extreme := variance[idx] <= 3*medianVariance
			switch {
			case hasBlack && rel < blackBoundary-edgeMargin && (extreme || rel < blackBoundary-edgeMargin-spread*0.1):
				color = board.Black
			case hasWhite && rel > whiteBoundary+edgeMargin && (extreme || rel > whiteBoundary+edgeMargin+spread*0.1):
				color = board.White
			}
			out = append(out, StonePoint{Col: col, Row: row, Color: color})
		}
	}
	return out
}

// localRelative computes relative[i] = brightness[i] -
// median(brightness over a +/-3 neighbourhood).
func localRelative(brightness []float64, boardSize int) []float64 {
	out := make([]float64, len(brightness))
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			idx := row*boardSize + col
			var window []float64
			for dr := -3; dr <= 3; dr++ {
				for dc := -3; dc <= 3; dc++ {
					r, c := row+dr, col+dc
					if r < 0 || r >= boardSize || c < 0 || c >= boardSize {
						continue
					}
					window = append(window, brightness[r*boardSize+c])
				}
			}
			out[idx] = brightness[idx] - median(window)
		}
	}
	return out
}

// applyHintCentroids replaces each k-means centroid with the mean of
// hinted relative values for that class where the caller supplied at
// least one hint of that colour, falling back to the k-means centroid
// otherwise.
func applyHintCentroids(centroids [3]float64, relative []float64, hints []Hint, boardSize int) [3]float64 {
	var blackSum, whiteSum, boardSum float64
	var blackN, whiteN, boardN int
	for _, h := range hints {
		if h.Col < 0 || h.Col >= boardSize || h.Row < 0 || h.Row >= boardSize {
			continue
		}
		rel := relative[h.Row*boardSize+h.Col]
		switch h.Color {
		case board.Black:
			blackSum += rel
			blackN++
		case board.White:
			whiteSum += rel
			whiteN++
		default:
			boardSum += rel
			boardN++
		}
	}

	out := centroids
	if blackN > 0 {
		out[0] = blackSum / float64(blackN)
	}
	if boardN > 0 {
		out[1] = boardSum / float64(boardN)
	}
	if whiteN > 0 {
		out[2] = whiteSum / float64(whiteN)
	}
	return out
}

func defaultCorners(g *imgproc.Grayscale) [4]homography.Point {
	w, h := float64(g.Width-1), float64(g.Height-1)
	return [4]homography.Point{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: w, Y: h},
		{X: 0, Y: h},
	}
}

func cellSpacing(corners [4]homography.Point, boardSize int) float64 {
	dx := corners[1].X - corners[0].X
	dy := corners[1].Y - corners[0].Y
	width := dx*dx + dy*dy
	dx = corners[3].X - corners[0].X
	dy = corners[3].Y - corners[0].Y
	height := dx*dx + dy*dy
	avgSide := (math.Sqrt(width) + math.Sqrt(height)) / 2
	if boardSize <= 1 {
		return avgSide
	}
	return avgSide / float64(boardSize-1)
}
