package report

import (
	"sort"

	"github.com/badukstudy/aicore/internal/board"
)

// PlayerStats holds one player's move counts, category tallies, and
// weighted accuracy over a game.
type PlayerStats struct {
	TotalMoves       int
	AIMoves          int
	Good             int
	Inaccuracies     int
	Mistakes         int
	Blunders         int
	WeightedAccuracy float64 // 0-100
}

// PhaseDistribution holds the move count and average points lost within
// one game phase.
type PhaseDistribution struct {
	Phase   Phase
	Moves   int
	Average float64 // average points lost within the phase
}

// GameReport is the complete performance report for one game's move stream.
type GameReport struct {
	Moves []MoveStats
	PlayerStats map[board.Side]*PlayerStats
	PhaseStats []PhaseDistribution
	TopMistakes []MoveStats
	TurningPoints []MoveStats
}

// Build aggregates a game's move stream into a GameReport: per-player and
// per-phase distributions, the top-N mistakes by points lost, and
// turning-point flags.
func Build(moves []MoveStats, topN int) *GameReport {
	r := &GameReport{
		Moves: moves,
		PlayerStats: map[board.Side]*PlayerStats{board.Black: {}, board.White: {}},
	}

	phaseSums := map[Phase]float64{}
	phaseCounts := map[Phase]int{}

	for _, m := range moves {
		ps := r.PlayerStats[m.Player]
		ps.TotalMoves++
		switch m.Category {
		case CategoryAIMove:
			ps.AIMoves++
		case CategoryGood:
			ps.Good++
		case CategoryInaccuracy:
			ps.Inaccuracies++
		case CategoryMistake:
			ps.Mistakes++
		case CategoryBlunder:
			ps.Blunders++
		}

		phaseSums[m.Phase] += m.PointsLost
		phaseCounts[m.Phase]++

		if m.IsTurningPoint() {
			r.TurningPoints = append(r.TurningPoints, m)
		}
	}

	for _, ps := range r.PlayerStats {
		if ps.TotalMoves == 0 {
			continue
		}
		weighted := float64(ps.AIMoves)*categoryWeights[0] +
			float64(ps.Good)*categoryWeights[1] +
			float64(ps.Inaccuracies)*categoryWeights[2] +
			float64(ps.Mistakes)*categoryWeights[3] +
			float64(ps.Blunders)*categoryWeights[4]
		ps.WeightedAccuracy = weighted / float64(ps.TotalMoves) * 100
	}

	for phase := PhaseOpening; phase <= PhaseEndGame; phase++ {
		n := phaseCounts[phase]
		if n == 0 {
			continue
		}
		r.PhaseStats = append(r.PhaseStats, PhaseDistribution{
			Phase: phase,
			Moves: n,
			Average: phaseSums[phase] / float64(n),
		})
	}

	r.TopMistakes = topMistakes(moves, topN)
	return r
}

func topMistakes(moves []MoveStats, n int) []MoveStats {
	sorted := append([]MoveStats(nil), moves...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PointsLost > sorted[j].PointsLost })
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
