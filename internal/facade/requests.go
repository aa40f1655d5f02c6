package facade

import (
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/badukstudy/aicore/internal/aierr"
	"github.com/badukstudy/aicore/internal/board"
	"github.com/badukstudy/aicore/internal/search"
	"github.com/badukstudy/aicore/internal/vision/classify"
	"github.com/badukstudy/aicore/internal/vision/detect"
	"github.com/badukstudy/aicore/internal/vision/homography"
	"github.com/badukstudy/aicore/internal/vision/imgproc"
	"github.com/badukstudy/aicore/internal/vision/posfile"
)

// maxConcurrentAnalyses bounds analyzeBatch's fan-out: threads inside the
// neural runtime are opaque and bounded by min(hardwareParallelism, 8).
const maxConcurrentAnalyses = 8

// RecognizeBoard runs the board recognition pipeline (corner detection,
// homography warp, stone classification, position emission) on img and
// returns a RecognitionResult.
func (f *Facade) RecognizeBoard(img *image.RGBA, opts Options) *Future {
	seq := f.NextSeq()
	return f.Submit(seq, func() (interface{}, error) {
		return f.recognizeBoard(img, opts)
	})
}

func (f *Facade) recognizeBoard(img *image.RGBA, opts Options) (*RecognitionResult, error) {
	mask := imgproc.SaturationMask(img)
	mask = imgproc.Dilate(mask, 5)

	quad, err := detect.FromMask(mask)
	cornersDetected := err == nil
	if err != nil {
		quad = fullImageQuad(img)
	}

	result, err := f.warpAndClassify(img, quad, opts, nil)
	if err != nil {
		return nil, err
	}
	result.CornersDetected = cornersDetected
	sess := f.sessions.New(img, quad)
	result.SessionID = sess.ID
	return result, nil
}

func fullImageQuad(img *image.RGBA) detect.Quad {
	b := img.Bounds()
	w, h := float64(b.Dx()-1), float64(b.Dy()-1)
	return detect.Quad{
		TL: homography.Point{X: 0, Y: 0},
		TR: homography.Point{X: w, Y: 0},
		BR: homography.Point{X: w, Y: h},
		BL: homography.Point{X: 0, Y: h},
	}
}

// ReclassifyWithCorners re-warps img through a caller-adjusted quad and
// re-runs the classifier, the reclassifyWithCorners.
// Corner-drag callers should route through DebounceReclassifyWithCorners
// instead of calling this directly, to get the 350ms coalescing window
// requires.
func (f *Facade) ReclassifyWithCorners(img *image.RGBA, corners detect.Quad, opts Options) *Future {
	seq := f.NextSeq()
	return f.Submit(seq, func() (interface{}, error) {
		return f.reclassify(img, corners, opts, nil)
	})
}

// ReclassifyWithHints re-warps img through corners and re-runs the
// classifier, passing per-vertex color hints through to bias the
// black/white/board centroid estimate at ambiguous intersections.
func (f *Facade) ReclassifyWithHints(img *image.RGBA, corners detect.Quad, hints []classify.Hint, opts Options) *Future {
	seq := f.NextSeq()
	return f.Submit(seq, func() (interface{}, error) {
		return f.reclassify(img, corners, opts, hints)
	})
}

func (f *Facade) reclassify(img *image.RGBA, corners detect.Quad, opts Options, hints []classify.Hint) (*RecognitionResult, error) {
	result, err := f.warpAndClassify(img, corners, opts, hints)
	if err != nil {
		return nil, err
	}
	result.CornersDetected = true
	sess := f.sessions.New(img, corners)
	result.SessionID = sess.ID
	return result, nil
}

// DebounceReclassifyWithCorners coalesces a burst of corner-drag calls
// into a single reclassification, using the 350ms CornerDragDebounce
// window: only the last call within the window of quiet actually runs,
// and on is invoked with its outcome. Earlier calls in the burst get no
// callback at all.
func (f *Facade) DebounceReclassifyWithCorners(img *image.RGBA, corners detect.Quad, opts Options, on func(*RecognitionResult, error)) {
	f.debounceCornerDrag(func() {
		v, err := f.ReclassifyWithCorners(img, corners, opts).Wait()
		if err != nil {
			on(nil, err)
			return
		}
		on(v.(*RecognitionResult), err)
	})
}

func (f *Facade) warpAndClassify(img *image.RGBA, quad detect.Quad, opts Options, hints []classify.Hint) (*RecognitionResult, error) {
	boardSize := opts.boardSize()
	outputSize := opts.outputSize()

	dstSide := float64(outputSize - 1)
	dst := [4]homography.Point{
		{X: 0, Y: 0},
		{X: dstSide, Y: 0},
		{X: dstSide, Y: dstSide},
		{X: 0, Y: dstSide},
	}
	src := [4]homography.Point{quad.TL, quad.TR, quad.BR, quad.BL}

	h, err := homography.Solve(src, dst)
	if err != nil {
		return nil, aierr.Wrap(aierr.KindAnalysis, err, "solving board homography")
	}
	inv, err := h.Invert()
	if err != nil {
		return nil, aierr.Wrap(aierr.KindAnalysis, err, "inverting board homography")
	}

	warped := homography.Warp(img, inv, outputSize)
	gray := imgproc.ToGrayscale(warped)
	stones := classify.Classify(gray, boardSize, opts.GridCorners, hints)

	var black, white []posfile.Stone
	for _, s := range stones {
		switch s.Color {
		case board.Black:
			black = append(black, posfile.Stone{Col: s.Col, Row: s.Row})
		case board.White:
			white = append(white, posfile.Stone{Col: s.Col, Row: s.Row})
		}
	}

	result := &RecognitionResult{
		BoardSize:    boardSize,
		Stones:       stones,
		Corners:      quad,
		PositionFile: posfile.Emit(boardSize, black, white),
		WarpedImage:  warped,
	}
	if opts.GridCorners != nil {
		q := detect.Quad{TL: opts.GridCorners[0], TR: opts.GridCorners[1], BR: opts.GridCorners[2], BL: opts.GridCorners[3]}
		result.EstimatedGridCorners = &q
	}
	return result, nil
}

// AnalyzePosition evaluates pos, falling back to the raw network
// evaluation when opts.NumVisits is 1 or less and otherwise running PUCT
// search for opts.NumVisits.
func (f *Facade) AnalyzePosition(pos *board.Position, opts AnalyzeOptions) *Future {
	seq := f.NextSeq()
	return f.Submit(seq, func() (interface{}, error) {
		return f.analyzePosition(pos, opts)
	})
}

func (f *Facade) analyzePosition(pos *board.Position, opts AnalyzeOptions) (*AnalysisResult, error) {
	baseline, err := f.eval.Run(pos)
	if err != nil {
		return nil, err
	}

	numVisits := opts.numVisits()
	if numVisits <= 1 {
		return &AnalysisResult{AnalysisResult: *baseline, Visits: 1}, nil
	}

	root := search.NewRootFromResult(pos, baseline)
	if err := search.Run(root, f.eval, numVisits); err != nil {
		return nil, err
	}

	result := &AnalysisResult{AnalysisResult: *baseline, Visits: root.N}
	result.WinRate = float32(root.Q())
	if suggestions := search.VisitDistribution(root, pos.Size); suggestions != nil {
		result.Suggestions = suggestions
	}
	return result, nil
}

// AnalyzeBatch evaluates every item concurrently, fanning out across
// goroutines bounded by maxConcurrentAnalyses via errgroup, mirroring
// internal/inference's use of the same package for featurizing one
// engine batch concurrently.
func (f *Facade) AnalyzeBatch(items []BatchItem) *Future {
	seq := f.NextSeq()
	return f.Submit(seq, func() (interface{}, error) {
		return f.analyzeBatch(items)
	})
}

func (f *Facade) analyzeBatch(items []BatchItem) ([]*AnalysisResult, error) {
	results := make([]*AnalysisResult, len(items))
	var g errgroup.Group
	g.SetLimit(maxConcurrentAnalyses)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			r, err := f.analyzePosition(item.Pos, item.Options)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
