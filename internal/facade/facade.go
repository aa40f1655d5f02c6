// Package facade implements the recognition and inference façade: the
// single cooperative request boundary the UI calls into, backed by a
// dedicated single-threaded worker that runs both the recognition
// pipeline and the inference engine. Requests carry a monotonically
// increasing sequence number; any result whose sequence is no longer the
// latest issued is discarded on return rather than delivered, which is
// what lets corner-drag bursts and rapid re-analysis requests resolve
// out of order without racing the UI.
//
// The single-worker-goroutine-plus-channel shape follows the same
// queue/batchLoop pattern internal/inference/batch.go uses for GPU batch
// collection; this package generalises it from "one batch collector" to
// "one cooperative request boundary" and adds a sequence-based
// staleness filter. Requests are identified by int64 sequence numbers;
// only SessionStore's session IDs come from google/uuid.
package facade

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/badukstudy/aicore/internal/aierr"
	"github.com/badukstudy/aicore/internal/inference"
	"github.com/badukstudy/aicore/internal/search"
)

// fallbackReporter is satisfied by *inference.Session; the façade reports
// the negotiated back-end through it without needing to widen
// search.Evaluator itself.
type fallbackReporter interface {
	Fallback() inference.FallbackInfo
}

// CornerDragDebounce is the coalescing window corner-drag reclassification
// uses: 350ms.
const CornerDragDebounce = 350 * time.Millisecond

type job struct {
	seq      int64
	fn       func() (interface{}, error)
	resultCh chan Outcome
}

// Facade is the async boundary: NewFacade starts its worker goroutine
// immediately, and Dispose stops it.
type Facade struct {
	seqCounter int64
	mu         sync.Mutex
	latestSeq  int64
	disposed   bool
	pending    map[*Future]struct{}

	jobs chan job
	quit chan struct{}
	wg   sync.WaitGroup

	debounceMu sync.Mutex
	debounce   *time.Timer

	eval     search.Evaluator
	sessions *SessionStore
}

// NewFacade starts a Facade with its dedicated worker goroutine. eval is
// the inference surface analyzePosition and analyzeBatch drive;
// *inference.Session satisfies it directly.
func NewFacade(eval search.Evaluator) *Facade {
	f := &Facade{
		pending:  make(map[*Future]struct{}),
		jobs:     make(chan job, 64),
		quit:     make(chan struct{}),
		eval:     eval,
		sessions: NewSessionStore(),
	}
	f.wg.Add(1)
	go f.worker()
	return f
}

func (f *Facade) worker() {
	defer f.wg.Done()
	for {
		select {
		case j := <-f.jobs:
			v, err := j.fn()
			j.resultCh <- Outcome{Value: v, Err: err}
		case <-f.quit:
			return
		}
	}
}

// NextSeq issues the next monotonically increasing sequence number and
// marks it as the latest — any still-pending request from an earlier
// sequence becomes stale the moment this is called.
func (f *Facade) NextSeq() int64 {
	seq := atomic.AddInt64(&f.seqCounter, 1)
	f.mu.Lock()
	f.latestSeq = seq
	f.mu.Unlock()
	return seq
}

// Submit runs fn on the worker goroutine under sequence seq and returns a
// Future that resolves to its result, or to a Cancelled error if a newer
// sequence was issued before fn's result was ready, or if the façade was
// disposed in the meantime.
func (f *Facade) Submit(seq int64, fn func() (interface{}, error)) *Future {
	future := newFuture()

	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		future.resolve(Outcome{Err: aierr.Newf(aierr.KindCancelled, "facade disposed before sequence %d was submitted", seq)})
		return future
	}
	f.pending[future] = struct{}{}
	f.mu.Unlock()

	j := job{seq: seq, fn: fn, resultCh: make(chan Outcome, 1)}
	select {
	case f.jobs <- j:
	case <-f.quit:
		f.removePending(future)
		future.resolve(Outcome{Err: aierr.Newf(aierr.KindCancelled, "facade disposed before sequence %d was scheduled", seq)})
		return future
	}

	go func() {
		defer f.removePending(future)
		outcome := <-j.resultCh

		f.mu.Lock()
		stale := seq < f.latestSeq
		disposed := f.disposed
		f.mu.Unlock()

		if disposed {
			future.resolve(Outcome{Err: aierr.Newf(aierr.KindCancelled, "facade disposed")})
			return
		}
		if stale {
			future.resolve(Outcome{Err: aierr.Newf(aierr.KindCancelled, "sequence %d superseded by a later request", seq)})
			return
		}
		future.resolve(outcome)
	}()

	return future
}

// Fallback reports the negotiated back-end, if the façade's evaluator
// exposes one (*inference.Session always does).
func (f *Facade) Fallback() (inference.FallbackInfo, bool) {
	r, ok := f.eval.(fallbackReporter)
	if !ok {
		return inference.FallbackInfo{}, false
	}
	return r.Fallback(), true
}

// Session looks up a previously recognized image by the session ID
// RecognizeBoard/ReclassifyWithCorners/ReclassifyWithHints returned, so a
// corner-drag or hint-only follow-up can re-warp the original image
// without the caller re-uploading it.
func (f *Facade) Session(id string) (*Session, error) {
	return f.sessions.Get(id)
}

func (f *Facade) removePending(fut *Future) {
	f.mu.Lock()
	delete(f.pending, fut)
	f.mu.Unlock()
}

// Dispose terminates the worker and rejects every pending future. It is
// idempotent.
func (f *Facade) Dispose() {
	f.mu.Lock()
	if f.disposed {
		f.mu.Unlock()
		return
	}
	f.disposed = true
	pending := make([]*Future, 0, len(f.pending))
	for fut := range f.pending {
		pending = append(pending, fut)
	}
	f.pending = make(map[*Future]struct{})
	f.mu.Unlock()

	close(f.quit)
	f.wg.Wait()

	for _, fut := range pending {
		fut.resolve(Outcome{Err: aierr.Newf(aierr.KindCancelled, "facade disposed")})
	}
}

// CancelAll rejects every pending future but keeps the worker running,
// the dispose()/cancelAll() distinction.
func (f *Facade) CancelAll() {
	f.mu.Lock()
	pending := make([]*Future, 0, len(f.pending))
	for fut := range f.pending {
		pending = append(pending, fut)
	}
	f.pending = make(map[*Future]struct{})
	f.mu.Unlock()

	for _, fut := range pending {
		fut.resolve(Outcome{Err: aierr.Newf(aierr.KindCancelled, "cancelled by cancelAll")})
	}
}

// debounceCornerDrag coalesces bursts of corner-drag requests: each call
// restarts the window, and only the last call within CornerDragDebounce
// of quiet actually runs fn.
func (f *Facade) debounceCornerDrag(fn func()) {
	f.debounceMu.Lock()
	defer f.debounceMu.Unlock()
	if f.debounce != nil {
		f.debounce.Stop()
	}
	f.debounce = time.AfterFunc(CornerDragDebounce, fn)
}
