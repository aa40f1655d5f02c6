package search

import (
	"math"

	"github.com/badukstudy/aicore/internal/board"
	"github.com/badukstudy/aicore/internal/inference"
)

// Run performs numVisits iterations of selection, expansion/evaluation,
// and backup starting from root. It is meaningless (and
// callers should not invoke it) for numVisits <= 1 — that case calls the
// evaluator directly instead.
func Run(root *Node, eval Evaluator, numVisits int) error {
	for i := 0; i < numVisits; i++ {
		if err := runOneVisit(root, eval); err != nil {
			return err
		}
	}
	return nil
}

func runOneVisit(root *Node, eval Evaluator) error {
	path := []*Node{root}
	node := root

	for node.Expanded && len(node.Children) > 0 {
		if isDoublePassTerminal(path) {
			break
		}
		child := selectChild(node)
		if child.Pos == nil {
			pos, ok := node.Pos.ApplyMove(child.Move, node.Pos.NextToMove)
			if !ok {
				// Selection chose a move the coarse filter missed;
				// truncate and back up the parent's own running average.
				backup(path, node.Q())
				return nil
			}
			child.Pos = pos
		}
		node = child
		path = append(path, node)
	}

	result, err := eval.Run(node.Pos)
	if err != nil {
		return err
	}

	if !node.Expanded {
		expand(node, result)
	}
	backup(path, float64(result.WinRate))
	return nil
}

func isDoublePassTerminal(path []*Node) bool {
	if len(path) < 2 {
		return false
	}
	a, b := path[len(path)-1], path[len(path)-2]
	return a.Move.IsPass() && b.Move.IsPass()
}

// selectChild descends to the child maximizing
// q + c_puct * p * sqrt(max(N_parent,1)) / (1+N_child).
func selectChild(node *Node) *Node {
	moverIsBlack := node.Pos.NextToMove.String() == "B"
	parentN := float64(node.N)
	if parentN < 1 {
		parentN = 1
	}
	sqrtParent := math.Sqrt(parentN)

	var best *Node
	var bestScore float64 = math.Inf(-1)
	for _, c := range node.Children {
		q := c.qForMover(moverIsBlack)
		exploration := CPuct * float64(c.P) * sqrtParent / float64(1+c.N)
		score := q + exploration
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}

// expand creates children for every move suggestion that is a pass or
// passes the coarse legality filter (occupancy + ko; the ko vertex is
// already excluded by the inference layer's decode step).
func expand(node *Node, result *inference.AnalysisResult) {
	node.Expanded = true
	for _, s := range result.Suggestions {
		if !s.Coord.IsPass() && node.Pos.At(s.Coord) != board.Empty {
			continue // occupied; the coarse filter rejects it
		}
		node.Children = append(node.Children, &Node{Move: s.Coord, P: s.Probability})
	}
}

// backup adds value (already in Black's frame) to every node on path and
// increments its visit count.
func backup(path []*Node, value float64) {
	for _, n := range path {
		n.N++
		n.W += value
	}
}
