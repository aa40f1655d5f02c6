// Package search implements PUCT Monte Carlo tree search: selection by
// the KataGo-style exploration formula, expansion via one
// neural-network evaluation per leaf, and backup of the Black-frame
// win-rate up the selection path.
package search

import (
	"github.com/badukstudy/aicore/internal/board"
	"github.com/badukstudy/aicore/internal/inference"
)

// CPuct is the exploration constant, fixed at 1.5.
const CPuct = 1.5

// Node is one vertex of the search tree. Pos is filled lazily: a child is
// created from a policy suggestion without yet knowing whether applying
// its move actually succeeds (the coarse legality filter used at
// expansion time does not simulate captures or suicide), and is only
// materialized the first time selection descends into it.
type Node struct {
	Move     board.Coord
	P        float32
	N        int
	W        float64 // sum of backed-up Black-frame win-rates
	Expanded bool
	Children []*Node

	Pos *board.Position // nil until first successfully applied
}

// NewRoot creates the search root at pos.
func NewRoot(pos *board.Position) *Node {
	return &Node{Pos: pos}
}

// Q returns the node's Black-frame average value, 0 if unvisited.
func (n *Node) Q() float64 {
	if n.N == 0 {
		return 0
	}
	return n.W / float64(n.N)
}

// qForMover converts n's Black-frame Q into the frame of the side about to
// move at the parent: W/N if Black to move, else 1 - W/N.
func (n *Node) qForMover(moverIsBlack bool) float64 {
	q := n.Q()
	if moverIsBlack {
		return q
	}
	return 1 - q
}

// Evaluator is the inference surface the search needs; *inference.Session
// satisfies it directly.
type Evaluator interface {
	Run(pos *board.Position) (*inference.AnalysisResult, error)
}
