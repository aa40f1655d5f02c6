package feature

import (
	"testing"

	"github.com/badukstudy/aicore/internal/board"
)

func TestFeaturizeBasicPlanes(t *testing.T) {
	p := board.NewEmptyPosition(9)
	p, ok := p.ApplyMove(board.Coord{X: 2, Y: 2}, board.Black)
	if !ok {
		t.Fatalf("setup move rejected")
	}

	spatial := make([]float32, SpatialLen(9))
	global := make([]float32, NumGlobalFeatures)
	Featurize(p, spatial, global, 0)

	planeLen := 9 * 9
	constPlane := spatial[0:planeLen]
	for i, v := range constPlane {
		if v != 1 {
			t.Fatalf("plane 0 index %d = %v, want 1", i, v)
		}
	}

	// White is to move after Black's stone, so the opponent mask (plane 2)
	// should carry Black's stone, not the player mask (plane 1).
	playerMask := spatial[1*planeLen : 2*planeLen]
	oppMask := spatial[2*planeLen : 3*planeLen]
	idx := 2*9 + 2
	if playerMask[idx] != 0 {
		t.Fatalf("expected player mask empty at stone, it belongs to the side not to move")
	}
	if oppMask[idx] != 1 {
		t.Fatalf("expected opponent mask set at the Black stone just played")
	}

	histPlane9 := spatial[9*planeLen : 10*planeLen]
	if histPlane9[idx] != 1 {
		t.Fatalf("expected plane 9 (one move back) to mark the just-played move")
	}

	if global[0] != 0 {
		t.Fatalf("expected most recent ply not a pass, global[0]=%v", global[0])
	}
	wantKomi := float32(p.Komi / 20.0)
	if global[5] != wantKomi {
		t.Fatalf("global[5] = %v, want %v", global[5], wantKomi)
	}
}

func TestFeaturizeLibertyPlanes(t *testing.T) {
	p := board.NewEmptyPosition(9)
	var ok bool
	p, ok = p.ApplyMove(board.Coord{X: 4, Y: 4}, board.Black)
	if !ok {
		t.Fatalf("move rejected")
	}
	p, ok = p.ApplyMove(board.Coord{X: 4, Y: 3}, board.White)
	if !ok {
		t.Fatalf("move rejected")
	}
	p, ok = p.ApplyMove(board.Coord{X: 3, Y: 4}, board.White)
	if !ok {
		t.Fatalf("move rejected")
	}
	p, ok = p.ApplyMove(board.Coord{X: 5, Y: 4}, board.White)
	if !ok {
		t.Fatalf("move rejected")
	}

	spatial := make([]float32, SpatialLen(9))
	global := make([]float32, NumGlobalFeatures)
	Featurize(p, spatial, global, 0)

	planeLen := 9 * 9
	lib1 := spatial[3*planeLen : 4*planeLen]
	idx := 4*9 + 4
	if lib1[idx] != 1 {
		t.Fatalf("expected the atari'd Black stone to be marked in the 1-liberty plane")
	}
}

func TestFingerprintChangesAfterMove(t *testing.T) {
	p := board.NewEmptyPosition(9)
	f1 := Fingerprint(p)
	q, _ := p.ApplyMove(board.Coord{X: 0, Y: 0}, board.Black)
	f2 := Fingerprint(q)
	if f1 == f2 {
		t.Fatalf("expected fingerprint to change after a move")
	}
}
