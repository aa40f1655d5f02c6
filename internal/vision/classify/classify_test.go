package classify

import (
	"image"
	"image/color"
	"testing"

	"github.com/badukstudy/aicore/internal/board"
	"github.com/badukstudy/aicore/internal/vision/imgproc"
)

// syntheticGrid paints a boardSize x boardSize grid of discs onto a mid-gray
// background: black discs at the (col,row) pairs in black, white at white.
func syntheticGrid(boardSize, cellPx int, black, white map[[2]int]bool) *imgproc.Grayscale {
	size := boardSize * cellPx
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, y, color.RGBA{128, 128, 128, 255})
		}
	}
	for row := 0; row < boardSize; row++ {
		for col := 0; col < boardSize; col++ {
			cx, cy := col*cellPx+cellPx/2, row*cellPx+cellPx/2
			var val uint8
			switch {
			case black[[2]int{col, row}]:
				val = 10
			case white[[2]int{col, row}]:
				val = 245
			default:
				continue
			}
			paintDisc(img, cx, cy, cellPx/3, val)
		}
	}
	return imgproc.ToGrayscale(img)
}

func paintDisc(img *image.RGBA, cx, cy, radius int, val uint8) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			x, y := cx+dx, cy+dy
			if x < 0 || y < 0 || x >= img.Bounds().Dx() || y >= img.Bounds().Dy() {
				continue
			}
			img.SetRGBA(x, y, color.RGBA{val, val, val, 255})
		}
	}
}

func TestClassifyDetectsBlackAndWhiteStones(t *testing.T) {
	boardSize := 9
	black := map[[2]int]bool{{2, 2}: true, {6, 6}: true}
	white := map[[2]int]bool{{2, 6}: true, {6, 2}: true}
	g := syntheticGrid(boardSize, 24, black, white)

	points := Classify(g, boardSize, nil, nil)
	index := map[[2]int]board.Side{}
	for _, p := range points {
		index[[2]int{p.Col, p.Row}] = p.Color
	}

	if index[[2]int{2, 2}] != board.Black {
		t.Fatalf("expected (2,2) to classify as black, got %v", index[[2]int{2, 2}])
	}
	if index[[2]int{2, 6}] != board.White {
		t.Fatalf("expected (2,6) to classify as white, got %v", index[[2]int{2, 6}])
	}
	if index[[2]int{0, 0}] != board.Empty {
		t.Fatalf("expected an untouched corner to classify as empty, got %v", index[[2]int{0, 0}])
	}
}

func TestClassifyHintsOverrideClustering(t *testing.T) {
	boardSize := 9
	g := syntheticGrid(boardSize, 24, nil, nil)
	hints := []Hint{{Col: 4, Row: 4, Color: board.Black}}

	points := Classify(g, boardSize, nil, hints)
	for _, p := range points {
		if p.Col == 4 && p.Row == 4 {
			if p.Color != board.Black {
				t.Fatalf("expected the hinted point to classify as black, got %v", p.Color)
			}
			return
		}
	}
	t.Fatalf("hinted point not found in output")
}
