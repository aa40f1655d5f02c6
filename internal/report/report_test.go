package report

import (
	"testing"

	"github.com/badukstudy/aicore/internal/board"
)

func TestClassifyByPointsLost(t *testing.T) {
	cases := []struct {
		pointsLost float64
		want       Category
	}{
		{0.0, CategoryAIMove},
		{0.2, CategoryAIMove},
		{0.5, CategoryGood},
		{1.0, CategoryGood},
		{1.5, CategoryInaccuracy},
		{2.0, CategoryInaccuracy},
		{3.0, CategoryMistake},
		{5.0, CategoryMistake},
		{5.1, CategoryBlunder},
		{20.0, CategoryBlunder},
	}
	for _, c := range cases {
		if got := ClassifyByPointsLost(c.pointsLost); got != c.want {
			t.Errorf("ClassifyByPointsLost(%v) = %v, want %v", c.pointsLost, got, c.want)
		}
	}
}

func TestClassifyPhase(t *testing.T) {
	cases := []struct {
		boardSize, moveIndex int
		want                 Phase
	}{
		{19, 0, PhaseOpening},
		{19, 49, PhaseOpening},
		{19, 50, PhaseMiddleGame},
		{19, 149, PhaseMiddleGame},
		{19, 150, PhaseEndGame},
		{9, 10, PhaseOpening},
		{9, 20, PhaseMiddleGame},
		{9, 41, PhaseEndGame},
	}
	for _, c := range cases {
		if got := ClassifyPhase(c.boardSize, c.moveIndex); got != c.want {
			t.Errorf("ClassifyPhase(%d,%d) = %v, want %v", c.boardSize, c.moveIndex, got, c.want)
		}
	}
}

func TestNewMoveStatsSignConvention(t *testing.T) {
	// Black's score drops by 2: Black loses 2 points.
	m := NewMoveStats(19, 10, board.Black, 5.0, 3.0, 0.6, 0.5, 1)
	if m.PointsLost != 2.0 {
		t.Fatalf("expected Black losing 2 points of score to register 2 points lost, got %v", m.PointsLost)
	}
	if m.PointsGained != 0 {
		t.Fatalf("expected no points gained, got %v", m.PointsGained)
	}

	// White's score (in Black's frame) rises by 2: White loses 2 points.
	w := NewMoveStats(19, 10, board.White, 3.0, 5.0, 0.4, 0.5, 1)
	if w.PointsLost != 2.0 {
		t.Fatalf("expected White losing 2 points under the sgn(W)=-1 convention, got %v", w.PointsLost)
	}
}

func TestIsTurningPoint(t *testing.T) {
	m := MoveStats{ScoreBefore: 1.0, ScoreAfter: 7.0}
	if !m.IsTurningPoint() {
		t.Fatalf("expected a 6-point swing to be a turning point")
	}
	small := MoveStats{ScoreBefore: 1.0, ScoreAfter: 3.0}
	if small.IsTurningPoint() {
		t.Fatalf("did not expect a 2-point swing to be a turning point")
	}
}

func TestBuildAggregatesPerPlayerAndPhase(t *testing.T) {
	moves := []MoveStats{
		NewMoveStats(9, 1, board.Black, 0, 0, 0.5, 0.5, 1),    // AI move
		NewMoveStats(9, 2, board.White, 0, 6, 0.5, 0.3, 1),    // blunder for White
		NewMoveStats(9, 20, board.Black, 0, -1, 0.5, 0.45, 2), // good, middle game
	}
	r := Build(moves, 2)

	if r.PlayerStats[board.White].Blunders != 1 {
		t.Fatalf("expected White to have 1 blunder, got %d", r.PlayerStats[board.White].Blunders)
	}
	if r.PlayerStats[board.Black].TotalMoves != 2 {
		t.Fatalf("expected Black to have 2 moves, got %d", r.PlayerStats[board.Black].TotalMoves)
	}
	if len(r.PhaseStats) != 2 || r.PhaseStats[0].Moves != 2 || r.PhaseStats[1].Phase != PhaseMiddleGame || r.PhaseStats[1].Moves != 1 {
		t.Fatalf("expected 2 opening moves and 1 middle-game move, got %+v", r.PhaseStats)
	}
	if len(r.TopMistakes) != 2 {
		t.Fatalf("expected top 2 mistakes, got %d", len(r.TopMistakes))
	}
	if r.TopMistakes[0].PointsLost < r.TopMistakes[1].PointsLost {
		t.Fatalf("expected top mistakes sorted descending by points lost")
	}
}

func TestClassifyWithAxisPicksLessSevere(t *testing.T) {
	// score-based says blunder, but rank=1 and prob nearly identical to best:
	// the policy axis should call it an AI move, and LessSevereOf should
	// prefer that milder verdict.
	got := ClassifyWithAxis(LessSevereOf, 20.0, 1, 0.49, 0.5)
	if got != CategoryAIMove {
		t.Fatalf("ClassifyWithAxis(LessSevereOf, ...) = %v, want CategoryAIMove", got)
	}

	scoreOnly := ClassifyWithAxis(ScoreBased, 20.0, 1, 0.49, 0.5)
	if scoreOnly != CategoryBlunder {
		t.Fatalf("ClassifyWithAxis(ScoreBased, ...) = %v, want CategoryBlunder", scoreOnly)
	}
}
