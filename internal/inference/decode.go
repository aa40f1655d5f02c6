package inference

import (
	"math"
	"sort"

	"github.com/badukstudy/aicore/internal/board"
)

const topSuggestionCount = 10

// decodeOne reads batch item idx out of the pre-allocated output buffers
// and produces a fully decoded, Black-frame AnalysisResult: softmax over
// the value and policy heads, ownership sign-flip, and a ko-aware top-N
// move list.
func (s *Session) decodeOne(idx, boardSize int, pos *board.Position) *AnalysisResult {
	sign := float32(1)
	if pos.NextToMove == board.White {
		sign = -1
	}

	v := s.valueOut[idx*3 : idx*3+3]
	winP, lossP, _ := softmax3(v[0], v[1], v[2])
	currentPlayerWinRate := winP
	blackWinRate := currentPlayerWinRate
	if pos.NextToMove != board.Black {
		blackWinRate = 1 - currentPlayerWinRate
	}
	_ = lossP

	miscWidth := len(s.miscOut) / s.staticBatch
	var scoreLead float32
	if miscWidth > 2 {
		scoreLead = s.miscOut[idx*miscWidth+2] * 20 * sign
	}

	policyLen := boardSize*boardSize + 1
	rawPolicy := s.policyOut[idx*policyLen : (idx+1)*policyLen]
	policy := softmax(rawPolicy)

	var ownership []float32
	if s.hasOwnership {
		planeLen := boardSize * boardSize
		raw := s.ownershipOut[idx*planeLen : (idx+1)*planeLen]
		ownership = make([]float32, planeLen)
		for i, o := range raw {
			v := o * sign
			if v > 1 {
				v = 1
			} else if v < -1 {
				v = -1
			}
			ownership[i] = v
		}
	}

	suggestions := topSuggestions(policy, boardSize, topSuggestionCount)
	suggestions = applyKoFilter(suggestions, pos, boardSize)

	return &AnalysisResult{
		WinRate:     blackWinRate,
		ScoreLead:   scoreLead,
		Policy:      policy,
		Suggestions: suggestions,
		Ownership:   ownership,
	}
}

func softmax3(a, b, c float32) (float32, float32, float32) {
	m := maxOf3(a, b, c)
	ea := math.Exp(float64(a - m))
	eb := math.Exp(float64(b - m))
	ec := math.Exp(float64(c - m))
	sum := ea + eb + ec
	return float32(ea / sum), float32(eb / sum), float32(ec / sum)
}

func maxOf3(a, b, c float32) float32 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}

func softmax(logits []float32) []float32 {
	out := make([]float32, len(logits))
	m := logits[0]
	for _, v := range logits {
		if v > m {
			m = v
		}
	}
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - m))
		out[i] = float32(e)
		sum += e
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
	return out
}

func topSuggestions(policy []float32, boardSize, n int) []MoveSuggestion {
	idx := make([]int, len(policy))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return policy[idx[a]] > policy[idx[b]] })
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]MoveSuggestion, 0, n)
	passIdx := boardSize * boardSize
	for _, i := range idx[:n] {
		var c board.Coord
		if i == passIdx {
			c = board.Pass()
		} else {
			c = board.Coord{X: i % boardSize, Y: i / boardSize}
		}
		out = append(out, MoveSuggestion{Coord: c, CoordString: c.String(boardSize), Probability: policy[i]})
	}
	return out
}

// applyKoFilter removes any suggestion equal to the side-to-move's
// ko-forbidden vertex, then renormalises the remainder to sum to one if
// the total is positive.
func applyKoFilter(suggestions []MoveSuggestion, pos *board.Position, boardSize int) []MoveSuggestion {
	if pos.Ko == nil || pos.Ko.Side != pos.NextToMove {
		return suggestions
	}
	out := make([]MoveSuggestion, 0, len(suggestions))
	var total float32
	for _, sugg := range suggestions {
		if !sugg.Coord.IsPass() && sugg.Coord == pos.Ko.Coord {
			continue
		}
		out = append(out, sugg)
		total += sugg.Probability
	}
	if total > 0 {
		for i := range out {
			out[i].Probability /= total
		}
	}
	return out
}
