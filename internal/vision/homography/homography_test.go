package homography

import "testing"

func TestSolveIdentityCorners(t *testing.T) {
	src := [4]Point{{0, 0}, {18, 0}, {18, 18}, {0, 18}}
	dst := [4]Point{{0, 0}, {18, 0}, {18, 18}, {0, 18}}

	m, err := Solve(src, dst)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	got := m.Apply(Point{X: 9, Y: 9})
	if !almostEqual(got.X, 9) || !almostEqual(got.Y, 9) {
		t.Fatalf("expected the identity mapping to fix (9,9), got %v", got)
	}
}

func TestSolveRotatedQuad(t *testing.T) {
	src := [4]Point{{10, 0}, {100, 20}, {90, 110}, {0, 90}}
	dst := [4]Point{{0, 0}, {18, 0}, {18, 18}, {0, 18}}

	m, err := Solve(src, dst)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	for i, s := range src {
		got := m.Apply(s)
		if !almostEqual(got.X, dst[i].X) || !almostEqual(got.Y, dst[i].Y) {
			t.Fatalf("corner %d: Apply(%v) = %v, want %v", i, s, got, dst[i])
		}
	}
}

func TestSolveDegenerateFailsOnPivot(t *testing.T) {
	src := [4]Point{{0, 0}, {0, 0}, {0, 0}, {0, 0}}
	dst := [4]Point{{0, 0}, {18, 0}, {18, 18}, {0, 18}}

	if _, err := Solve(src, dst); err == nil {
		t.Fatalf("expected a degenerate point configuration to fail")
	}
}

func TestInvertRoundTrips(t *testing.T) {
	src := [4]Point{{10, 0}, {100, 20}, {90, 110}, {0, 90}}
	dst := [4]Point{{0, 0}, {18, 0}, {18, 18}, {0, 18}}

	m, err := Solve(src, dst)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	inv, err := m.Invert()
	if err != nil {
		t.Fatalf("Invert: %v", err)
	}
	for i, d := range dst {
		got := inv.Apply(d)
		if !almostEqual(got.X, src[i].X) || !almostEqual(got.Y, src[i].Y) {
			t.Fatalf("corner %d: inv.Apply(%v) = %v, want %v", i, d, got, src[i])
		}
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-6
}
