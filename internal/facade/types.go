package facade

import (
	"image"

	"github.com/badukstudy/aicore/internal/board"
	"github.com/badukstudy/aicore/internal/inference"
	"github.com/badukstudy/aicore/internal/vision/classify"
	"github.com/badukstudy/aicore/internal/vision/detect"
	"github.com/badukstudy/aicore/internal/vision/homography"
)

// Options is the recognition-call option bag: output square size, board
// size, and an optional caller-supplied grid-corners override.
// BlackThreshold/WhiteThreshold are accepted for signature parity with the
// recognize call but are not consumed — the classifier's black/white
// gates (the 5-point and 15%-of-spread thresholds) are fixed, not
// caller-tunable, in this module.
type Options struct {
	BoardSize      int
	OutputSize     int
	BlackThreshold float64
	WhiteThreshold float64
	GridCorners    *[4]homography.Point
}

func (o Options) outputSize() int {
	if o.OutputSize > 0 {
		return o.OutputSize
	}
	return 800
}

func (o Options) boardSize() int {
	if o.BoardSize > 0 {
		return o.BoardSize
	}
	return 19
}

// RecognitionResult is the façade's board-recognition output.
type RecognitionResult struct {
	SessionID            string
	BoardSize            int
	Stones               []classify.StonePoint
	Corners              detect.Quad
	CornersDetected      bool
	PositionFile         string
	WarpedImage          *image.RGBA
	EstimatedGridCorners *detect.Quad
}

// AnalyzeOptions is analyzePosition's option bag.
type AnalyzeOptions struct {
	NumVisits int
}

func (o AnalyzeOptions) numVisits() int {
	if o.NumVisits > 0 {
		return o.NumVisits
	}
	return 1
}

// AnalysisResult extends inference.AnalysisResult with the MCTS visit
// count once search has run.
type AnalysisResult struct {
	inference.AnalysisResult
	Visits int
}

// BatchItem is one request of an analyzeBatch call.
type BatchItem struct {
	Pos *board.Position
	Options AnalyzeOptions
}
