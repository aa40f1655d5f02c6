// Package report implements the performance report generator: per-move
// classification, phase bucketing, weighted accuracy, aggregate
// statistics, top-N mistakes and turning points. The classifier follows
// a threshold-table-plus-switch-ladder shape — named constants paired
// with a parallel threshold array — and the aggregation types follow a
// per-player/per-game statistics-struct shape.
package report

import "github.com/badukstudy/aicore/internal/board"

// Category is a per-move classification.
type Category int

const (
	CategoryAIMove Category = iota
	CategoryGood
	CategoryInaccuracy
	CategoryMistake
	CategoryBlunder
)

func (c Category) String() string {
	return [...]string{"AI Move", "Good", "Inaccuracy", "Mistake", "Blunder"}[c]
}

// categoryThresholds are the points-lost upper bounds for every category
// except Blunder (anything above the last entry).
var categoryThresholds = [4]float64{0.2, 1.0, 2.0, 5.0}

// categoryWeights feed the weighted-accuracy average.
var categoryWeights = [5]float64{1.0, 0.8, 0.5, 0.2, 0.0}

// ClassifyByPointsLost returns the first category whose threshold
// pointsLost does not exceed; anything past the last threshold is a
// blunder.
func ClassifyByPointsLost(pointsLost float64) Category {
	for i, t := range categoryThresholds {
		if pointsLost <= t {
			return Category(i)
		}
	}
	return CategoryBlunder
}

// Phase is a game-stage bucket.
type Phase int

const (
	PhaseOpening Phase = iota
	PhaseMiddleGame
	PhaseEndGame
)

func (p Phase) String() string {
	return [...]string{"Opening", "Middle Game", "End Game"}[p]
}

// phaseThresholds gives the [openingEnd, middleGameEnd] move-index
// boundaries per board size.
var phaseThresholds = map[int][2]int{
	19: {50, 150},
	13: {30, 80},
	9: {15, 40},
}

// ClassifyPhase derives the phase from the absolute move index.
func ClassifyPhase(boardSize, moveIndex int) Phase {
	t, ok := phaseThresholds[boardSize]
	if !ok {
		t = phaseThresholds[19]
	}
	switch {
	case moveIndex < t[0]:
		return PhaseOpening
	case moveIndex < t[1]:
		return PhaseMiddleGame
	default:
		return PhaseEndGame
	}
}

// TurningPointThreshold is the |scoreAfter - scoreBefore| cutoff at or
// above which a move is flagged as a turning point.
const TurningPointThreshold = 5.0

// MoveStats is the per-move analysis record a report aggregates from.
type MoveStats struct {
	MoveIndex     int
	Player        board.Side
	ScoreBefore   float64
	ScoreAfter    float64
	WinRateBefore float32
	WinRateAfter  float32
	PointsLost    float64
	PointsGained  float64
	Rank          int
	Category      Category
	Phase         Phase
}

// sign returns +1 for Black, -1 for White (sgn(B)=+1,
// sgn(W)=-1).
func sign(side board.Side) float64 {
	if side == board.White {
		return -1
	}
	return 1
}

// NewMoveStats builds one move's statistics from the before/after
// Black-frame scores and win-rates, the played move's rank in the
// before-position's suggestion list (0 if absent), and board context.
func NewMoveStats(boardSize, moveIndex int, player board.Side, scoreBefore, scoreAfter float64, winRateBefore, winRateAfter float32, rank int) MoveStats {
	delta := (scoreBefore - scoreAfter) * sign(player)
	pointsLost := delta
	if pointsLost < 0 {
		pointsLost = 0
	}
	pointsGained := -delta
	if pointsGained < 0 {
		pointsGained = 0
	}

	return MoveStats{
		MoveIndex:     moveIndex,
		Player:        player,
		ScoreBefore:   scoreBefore,
		ScoreAfter:    scoreAfter,
		WinRateBefore: winRateBefore,
		WinRateAfter:  winRateAfter,
		PointsLost:    pointsLost,
		PointsGained:  pointsGained,
		Rank:          rank,
		Category:      ClassifyByPointsLost(pointsLost),
		Phase:         ClassifyPhase(boardSize, moveIndex),
	}
}

// IsTurningPoint reports whether the move's score swing crosses
// TurningPointThreshold.
func (m MoveStats) IsTurningPoint() bool {
	d := m.ScoreAfter - m.ScoreBefore
	if d < 0 {
		d = -d
	}
	return d >= TurningPointThreshold
}

// ClassificationAxis selects which classification path is authoritative:
// the score-based path (ClassifyByPointsLost, used throughout this
// package by default) or the policy-based alternative path. This
// module's decision (see DESIGN.md) is to make ScoreBased the
// module-wide default while still exposing PolicyBased for callers that
// want it.
type ClassificationAxis int

const (
	ScoreBased ClassificationAxis = iota
	PolicyBased
	LessSevereOf
)

// RankBasedCategory derives a category purely from the played move's rank
// in the pre-move suggestion list: rank 1 is an AI move, ranks 2-3 Good,
// 4-6 Inaccuracy, 7-10 Mistake, and anything past 10 a Blunder. Rank 0
// (not in the list at all) is always a Blunder.
func RankBasedCategory(rank int) Category {
	switch {
	case rank == 1:
		return CategoryAIMove
	case rank >= 2 && rank <= 3:
		return CategoryGood
	case rank >= 4 && rank <= 6:
		return CategoryInaccuracy
	case rank >= 7 && rank <= 10:
		return CategoryMistake
	default:
		return CategoryBlunder
	}
}

// ProbabilityBasedCategory derives a category from how far the played
// move's policy probability falls below the best suggestion's
// probability, as a fraction of the best probability.
func ProbabilityBasedCategory(playedProb, bestProb float32) Category {
	if bestProb <= 0 {
		return CategoryAIMove
	}
	relativeDrop := float64(bestProb-playedProb) / float64(bestProb)
	switch {
	case relativeDrop <= 0.05:
		return CategoryAIMove
	case relativeDrop <= 0.25:
		return CategoryGood
	case relativeDrop <= 0.5:
		return CategoryInaccuracy
	case relativeDrop <= 0.8:
		return CategoryMistake
	default:
		return CategoryBlunder
	}
}

// ClassifyWithAxis applies the given axis: ScoreBased uses pointsLost
// alone; PolicyBased combines rank and probability-drop and keeps the
// less severe of the two; LessSevereOf additionally compares that result
// against the score-based category and keeps whichever is less severe.
func ClassifyWithAxis(axis ClassificationAxis, pointsLost float64, rank int, playedProb, bestProb float32) Category {
	scoreCat := ClassifyByPointsLost(pointsLost)
	if axis == ScoreBased {
		return scoreCat
	}

	rankCat := RankBasedCategory(rank)
	probCat := ProbabilityBasedCategory(playedProb, bestProb)
	policyCat := rankCat
	if probCat < policyCat {
		policyCat = probCat
	}
	if axis == PolicyBased {
		return policyCat
	}

	if policyCat < scoreCat {
		return policyCat
	}
	return scoreCat
}
