package search

import (
	"testing"

	"github.com/badukstudy/aicore/internal/board"
	"github.com/badukstudy/aicore/internal/inference"
)

// fakeEvaluator returns a fixed result, counting how many times it was
// asked to evaluate a position.
type fakeEvaluator struct {
	result *inference.AnalysisResult
	calls  int
}

func (f *fakeEvaluator) Run(pos *board.Position) (*inference.AnalysisResult, error) {
	f.calls++
	return f.result, nil
}

func TestRunExpandsAndBacksUp(t *testing.T) {
	pos := board.NewEmptyPosition(9)
	root := NewRoot(pos)

	eval := &fakeEvaluator{result: &inference.AnalysisResult{
		WinRate:     0.75,
		Suggestions: []inference.MoveSuggestion{
			{Coord: board.Coord{X: 0, Y: 0}, Probability: 0.5},
			{Coord: board.Coord{X: 1, Y: 0}, Probability: 0.3},
			{Coord: board.Pass(), Probability: 0.2},
		},
	}}

	if err := Run(root, eval, 1); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !root.Expanded {
		t.Fatalf("expected root to be expanded after one visit")
	}
	if len(root.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(root.Children))
	}
	if root.N != 1 {
		t.Fatalf("expected root.N == 1, got %d", root.N)
	}
	if root.Q() != 0.75 {
		t.Fatalf("expected root.Q() == 0.75, got %v", root.Q())
	}
	if eval.calls != 1 {
		t.Fatalf("expected exactly one evaluation, got %d", eval.calls)
	}
}

func TestExpandSkipsOccupiedSuggestions(t *testing.T) {
	pos := board.NewEmptyPosition(9)
	pos, ok := pos.ApplyMove(board.Coord{X: 0, Y: 0}, board.Black)
	if !ok {
		t.Fatalf("setup move rejected")
	}

	node := &Node{Pos: pos}
	result := &inference.AnalysisResult{
		WinRate:     0.5,
		Suggestions: []inference.MoveSuggestion{
			{Coord: board.Coord{X: 0, Y: 0}, Probability: 0.6}, // occupied, must be skipped
			{Coord: board.Coord{X: 1, Y: 1}, Probability: 0.4},
			{Coord: board.Pass(), Probability: 0.1},
		},
	}

	expand(node, result)

	if len(node.Children) != 2 {
		t.Fatalf("expected 2 children after skipping the occupied suggestion, got %d", len(node.Children))
	}
	for _, c := range node.Children {
		if c.Move == (board.Coord{X: 0, Y: 0}) {
			t.Fatalf("occupied coordinate should not have produced a child")
		}
	}
}

func TestBackupAccumulatesAlongPath(t *testing.T) {
	root := &Node{}
	child := &Node{}
	grandchild := &Node{}
	path := []*Node{root, child, grandchild}

	backup(path, 0.6)
	backup(path, 0.4)

	for _, n := range path {
		if n.N != 2 {
			t.Fatalf("expected N == 2, got %d", n.N)
		}
		if n.W != 1.0 {
			t.Fatalf("expected W == 1.0, got %v", n.W)
		}
	}
}

func TestSelectChildPrefersHigherPriorWhenUnvisited(t *testing.T) {
	pos := board.NewEmptyPosition(9)
	parent := &Node{Pos: pos, N: 4}
	low := &Node{P: 0.1}
	high := &Node{P: 0.9}
	parent.Children = []*Node{low, high}

	best := selectChild(parent)
	if best != high {
		t.Fatalf("expected the higher-prior unvisited child to be selected")
	}
}

func TestIsDoublePassTerminal(t *testing.T) {
	a := &Node{Move: board.Pass()}
	b := &Node{Move: board.Pass()}
	c := &Node{Move: board.Coord{X: 2, Y: 2}}

	if !isDoublePassTerminal([]*Node{a, b}) {
		t.Fatalf("expected two consecutive passes to be terminal")
	}
	if isDoublePassTerminal([]*Node{c, b}) {
		t.Fatalf("did not expect a non-pass followed by a pass to be terminal")
	}
	if isDoublePassTerminal([]*Node{a}) {
		t.Fatalf("a single-element path can never be terminal")
	}
}
