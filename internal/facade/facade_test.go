package facade

import (
	"testing"
	"time"

	"github.com/badukstudy/aicore/internal/aierr"
	"github.com/badukstudy/aicore/internal/board"
	"github.com/badukstudy/aicore/internal/inference"
	"github.com/badukstudy/aicore/internal/vision/detect"
	"github.com/badukstudy/aicore/internal/vision/homography"
)

type fakeEvaluator struct {
	result *inference.AnalysisResult
	delay  time.Duration
}

func (f *fakeEvaluator) Run(pos *board.Position) (*inference.AnalysisResult, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.result, nil
}

func analysisFixture() *inference.AnalysisResult {
	return &inference.AnalysisResult{
		WinRate:     0.6,
		Suggestions: []inference.MoveSuggestion{
			{Coord: board.Coord{X: 0, Y: 0}, Probability: 0.5},
			{Coord: board.Coord{X: 1, Y: 0}, Probability: 0.5},
		},
	}
}

func TestSubmitResolvesWithJobResult(t *testing.T) {
	f := NewFacade(&fakeEvaluator{result: analysisFixture()})
	defer f.Dispose()

	seq := f.NextSeq()
	future := f.Submit(seq, func() (interface{}, error) { return 42, nil })
	v, err := future.Wait()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(int) != 42 {
		t.Fatalf("got %v, want 42", v)
	}
}

func TestSubmitDiscardsStaleResult(t *testing.T) {
	f := NewFacade(&fakeEvaluator{result: analysisFixture()})
	defer f.Dispose()

	staleSeq := f.NextSeq()
	blockCh := make(chan struct{})
	stale := f.Submit(staleSeq, func() (interface{}, error) {
		<-blockCh
		return "stale", nil
	})

	// A newer sequence supersedes the in-flight one before it resolves.
	f.NextSeq()
	close(blockCh)

	_, err := stale.Wait()
	if !aierr.Is(err, aierr.KindCancelled) {
		t.Fatalf("expected a Cancelled error for the superseded request, got %v", err)
	}
}

func TestDisposeRejectsPendingAndIsIdempotent(t *testing.T) {
	f := NewFacade(&fakeEvaluator{result: analysisFixture()})

	blockCh := make(chan struct{})
	seq := f.NextSeq()
	pending := f.Submit(seq, func() (interface{}, error) {
		<-blockCh
		return nil, nil
	})

	// Dispose waits for the worker's in-flight job to return before it
	// finishes, so the job must be unblocked before Dispose is called,
	// not after.
	close(blockCh)
	f.Dispose()

	_, err := pending.Wait()
	if !aierr.Is(err, aierr.KindCancelled) {
		t.Fatalf("expected Cancelled after dispose, got %v", err)
	}

	f.Dispose() // idempotent: must not panic or block
}

func TestCancelAllRejectsPendingButKeepsWorker(t *testing.T) {
	f := NewFacade(&fakeEvaluator{result: analysisFixture()})
	defer f.Dispose()

	blockCh := make(chan struct{})
	seq := f.NextSeq()
	pending := f.Submit(seq, func() (interface{}, error) {
		<-blockCh
		return nil, nil
	})

	f.CancelAll()
	close(blockCh)

	_, err := pending.Wait()
	if !aierr.Is(err, aierr.KindCancelled) {
		t.Fatalf("expected Cancelled after cancelAll, got %v", err)
	}

	// The worker must still be alive: a fresh submission resolves normally.
	seq2 := f.NextSeq()
	v, err := f.Submit(seq2, func() (interface{}, error) { return "alive", nil }).Wait()
	if err != nil || v.(string) != "alive" {
		t.Fatalf("expected worker to still be running after cancelAll, got v=%v err=%v", v, err)
	}
}

func TestAnalyzePositionSingleVisitSkipsSearch(t *testing.T) {
	eval := &fakeEvaluator{result: analysisFixture()}
	f := NewFacade(eval)
	defer f.Dispose()

	pos := board.NewEmptyPosition(9)
	result, err := f.analyzePosition(pos, AnalyzeOptions{NumVisits: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Visits != 1 {
		t.Fatalf("expected 1 visit, got %d", result.Visits)
	}
	if result.WinRate != 0.6 {
		t.Fatalf("expected the baseline win rate to pass through, got %v", result.WinRate)
	}
}

func TestAnalyzePositionWithSearchAccumulatesVisits(t *testing.T) {
	eval := &fakeEvaluator{result: analysisFixture()}
	f := NewFacade(eval)
	defer f.Dispose()

	pos := board.NewEmptyPosition(9)
	result, err := f.analyzePosition(pos, AnalyzeOptions{NumVisits: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Visits != 8 {
		t.Fatalf("expected 8 accumulated visits, got %d", result.Visits)
	}
	if len(result.Suggestions) == 0 {
		t.Fatalf("expected a non-empty visit-count policy")
	}
}

func TestAnalyzeBatchRunsAllItemsConcurrently(t *testing.T) {
	eval := &fakeEvaluator{result: analysisFixture(), delay: 5 * time.Millisecond}
	f := NewFacade(eval)
	defer f.Dispose()

	items := make([]BatchItem, 12)
	for i := range items {
		items[i] = BatchItem{Pos: board.NewEmptyPosition(9), Options: AnalyzeOptions{NumVisits: 1}}
	}

	start := time.Now()
	results, err := f.analyzeBatch(items)
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r == nil {
			t.Fatalf("result %d is nil", i)
		}
	}
	// 12 items at 5ms each, fanned out at most maxConcurrentAnalyses (8) at a
	// time, take two waves and should finish in well under 12*5ms if they
	// actually ran concurrently.
	if elapsed > 50*time.Millisecond {
		t.Fatalf("analyzeBatch took %v, expected concurrent fan-out to be much faster", elapsed)
	}
}

func TestSessionStoreRoundTrips(t *testing.T) {
	store := NewSessionStore()
	quad := detect.Quad{
		TL: homography.Point{X: 0, Y: 0},
		TR: homography.Point{X: 10, Y: 0},
		BR: homography.Point{X: 10, Y: 10},
		BL: homography.Point{X: 0, Y: 10},
	}
	sess := store.New(nil, quad)
	got, err := store.Get(sess.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != sess.ID {
		t.Fatalf("got session %q, want %q", got.ID, sess.ID)
	}

	if _, err := store.Get("does-not-exist"); err == nil {
		t.Fatalf("expected an error for an unknown session ID")
	}
}
