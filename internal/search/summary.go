package search

import (
	"sort"

	"github.com/badukstudy/aicore/internal/board"
	"github.com/badukstudy/aicore/internal/inference"
)

// NewRootFromResult creates a search root already expanded from a
// previously computed inference result, so the caller's baseline
// evaluation of pos doubles as the root's own expansion instead of being
// thrown away and re-run as the first visit.
func NewRootFromResult(pos *board.Position, result *inference.AnalysisResult) *Node {
	root := &Node{Pos: pos}
	expand(root, result)
	return root
}

// VisitDistribution turns root's child visit counts into the final move
// suggestions, the standard visit-count policy every PUCT/AlphaZero-style
// search reports instead of the raw network priors: each child's share of
// the total visit count, sorted descending and capped at 10 entries. If
// the tree never descended past the root (total visits zero, or every
// visit terminated at the root immediately), the raw priors are reported
// instead.
func VisitDistribution(root *Node, boardSize int) []inference.MoveSuggestion {
	if len(root.Children) == 0 {
		return nil
	}

	total := 0
	for _, c := range root.Children {
		total += c.N
	}

	out := make([]inference.MoveSuggestion, 0, len(root.Children))
	for _, c := range root.Children {
		p := c.P
		if total > 0 {
			p = float32(c.N) / float32(total)
		}
		out = append(out, inference.MoveSuggestion{
			Coord:       c.Move,
			CoordString: c.Move.String(boardSize),
			Probability: p,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Probability > out[j].Probability })
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}
