package board

import "testing"

func TestApplyMoveCapture(t *testing.T) {
	p := NewEmptyPosition(9)
	moves := []struct {
		coord Coord
		side  Side
	}{
		{Coord{X: 1, Y: 1}, White},
		{Coord{X: 1, Y: 0}, Black},
		{Coord{X: 0, Y: 1}, Black},
		{Coord{X: 2, Y: 1}, Black},
	}
	for _, mv := range moves {
		var ok bool
		p, ok = p.ApplyMove(mv.coord, mv.side)
		if !ok {
			t.Fatalf("move %v by %v rejected unexpectedly", mv.coord, mv.side)
		}
	}
	captured := Coord{X: 1, Y: 1}
	q, ok := p.ApplyMove(Coord{X: 1, Y: 2}, Black)
	if !ok {
		t.Fatalf("capturing move rejected unexpectedly")
	}
	if q.At(captured) != Empty {
		t.Fatalf("expected captured stone removed, got %v", q.At(captured))
	}
}

func TestApplyMoveSuicideRejected(t *testing.T) {
	p := NewEmptyPosition(9)
	moves := []Coord{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 1}}
	for _, c := range moves {
		var ok bool
		p, ok = p.ApplyMove(c, White)
		if !ok {
			t.Fatalf("setup move %v rejected", c)
		}
	}
	if _, ok := p.ApplyMove(Coord{X: 1, Y: 1}, Black); ok {
		t.Fatalf("expected suicide move to be rejected")
	}
}

func TestApplyMoveSimpleKo(t *testing.T) {
	// Corner ko: Black's final move at (0,0) captures a lone White stone
	// at (1,0) while itself ending up with exactly one liberty, so White
	// is forbidden from immediately recapturing at (1,0).
	p := NewEmptyPosition(9)
	setup := []struct {
		coord Coord
		side  Side
	}{
		{Coord{X: 2, Y: 0}, Black},
		{Coord{X: 1, Y: 1}, Black},
		{Coord{X: 1, Y: 0}, White},
		{Coord{X: 0, Y: 1}, White},
	}
	for _, mv := range setup {
		var ok bool
		p, ok = p.ApplyMove(mv.coord, mv.side)
		if !ok {
			t.Fatalf("setup move %v by %v rejected", mv.coord, mv.side)
		}
	}
	p, ok := p.ApplyMove(Coord{X: 0, Y: 0}, Black)
	if !ok {
		t.Fatalf("initial capture rejected unexpectedly")
	}
	if p.At(Coord{X: 1, Y: 0}) != Empty {
		t.Fatalf("expected captured White stone removed")
	}
	if p.Ko == nil {
		t.Fatalf("expected ko restriction to be set after single-stone capture")
	}
	if p.Ko.Side != White || p.Ko.Coord != (Coord{X: 1, Y: 0}) {
		t.Fatalf("unexpected ko restriction: %+v", p.Ko)
	}
	if _, ok := p.ApplyMove(p.Ko.Coord, p.Ko.Side); ok {
		t.Fatalf("expected immediate recapture at ko point to be rejected")
	}
}

func TestLastHistoryPadding(t *testing.T) {
	p := NewEmptyPosition(9)
	p, _ = p.ApplyMove(Coord{X: 0, Y: 0}, Black)
	got := p.LastHistory(5)
	if len(got) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(got))
	}
	for i := 0; i < 4; i++ {
		if !got[i].IsPass() {
			t.Fatalf("expected padding entry %d to be a pass, got %v", i, got[i])
		}
	}
	if got[4] != (Coord{X: 0, Y: 0}) {
		t.Fatalf("expected last entry to be the played move, got %v", got[4])
	}
}

func TestCoordRoundTrip(t *testing.T) {
	cases := []Coord{{X: 0, Y: 0}, {X: 8, Y: 8}, {X: 3, Y: 4}}
	for _, c := range cases {
		s := c.String(9)
		got, ok := ParseCoord(s, 9)
		if !ok {
			t.Fatalf("ParseCoord(%q) failed", s)
		}
		if got != c {
			t.Fatalf("round trip mismatch: %v -> %q -> %v", c, s, got)
		}
	}
}
