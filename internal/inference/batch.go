package inference

import (
	"strings"
	"time"

	ort "github.com/yalue/onnxruntime_go"
	"golang.org/x/sync/errgroup"

	"github.com/badukstudy/aicore/internal/aierr"
	"github.com/badukstudy/aicore/internal/board"
	"github.com/badukstudy/aicore/internal/feature"
)

// featurizeConcurrency bounds how many positions of one collected batch
// are featurized in parallel. Each goroutine writes to a disjoint
// batchOffset slice of the shared input buffers, so the only thing this
// limit protects against is oversubscribing the host CPU on a large
// static batch size.
const featurizeConcurrency = 8

// Run evaluates a single position: cache lookup, featurize, run, decode.
// No tensor is created per run: every run writes into the pre-allocated
// buffers bound at session creation, which only Close releases.
func (s *Session) Run(pos *board.Position) (*AnalysisResult, error) {
	if s.cache != nil {
		if r, ok := s.cache.get(feature.Fingerprint(pos)); ok {
			return r, nil
		}
	}
	resChan := make(chan evalOutcome, 1)
	s.queue <- evalRequest{pos: pos, result: resChan}
	out := <-resChan
	return out.result, out.err
}

// RunBatch evaluates many positions, splitting into chunks of the compiled
// static batch size and assembling results back in input order.
func (s *Session) RunBatch(positions []*board.Position) ([]*AnalysisResult, error) {
	results := make([]*AnalysisResult, len(positions))
	pending := make([]int, 0, len(positions))
	for i, p := range positions {
		if s.cache != nil {
			if r, ok := s.cache.get(feature.Fingerprint(p)); ok {
				results[i] = r
				continue
			}
		}
		pending = append(pending, i)
	}
	chans := make([]chan evalOutcome, len(pending))
	for k, i := range pending {
		ch := make(chan evalOutcome, 1)
		chans[k] = ch
		s.queue <- evalRequest{pos: positions[i], result: ch}
	}
	for k, i := range pending {
		out := <-chans[k]
		if out.err != nil {
			return nil, out.err
		}
		results[i] = out.result
	}
	return results, nil
}

func (s *Session) batchLoop() {
	requests := make([]evalRequest, 0, s.staticBatch)
	for {
		requests = requests[:0]
		select {
		case <-s.quit:
			return
		case req, ok := <-s.queue:
			if !ok {
				return
			}
			requests = append(requests, req)
		}

		timeout := time.After(batchTimeout)
	collect:
		for len(requests) < s.staticBatch {
			select {
			case r := <-s.queue:
				requests = append(requests, r)
			case <-timeout:
				break collect
			case <-s.quit:
				return
			}
		}
		s.processBatch(requests)
	}
}

func (s *Session) processBatch(requests []evalRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var g errgroup.Group
	g.SetLimit(featurizeConcurrency)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			feature.Featurize(req.pos, s.binInput, s.globalInput, i)
			return nil
		})
	}
	_ = g.Wait() // featurize never errors; Wait just joins the fan-out
	s.clearBatchTail(len(requests))

	err := s.runWithElementTypeRetry()
	if err != nil {
		for _, req := range requests {
			req.result <- evalOutcome{err: aierr.Wrap(aierr.KindAnalysis, err, "inference run failed")}
		}
		return
	}

	boardSize := s.cfg.BoardSize
	for i, req := range requests {
		result := s.decodeOne(i, boardSize, req.pos)
		if s.cache != nil {
			s.cache.put(feature.Fingerprint(req.pos), result)
		}
		req.result <- evalOutcome{result: result}
	}
}

// runWithElementTypeRetry runs the session; if the run fails with an error
// that names the expected half type, it converts the input buffers to
// float16 once, retries, and pins that mode for subsequent runs.
func (s *Session) runWithElementTypeRetry() error {
	err := s.onnxSession.Run()
	if err == nil {
		return nil
	}
	if s.elementTypePinned || !looksLikeHalfMismatch(err) {
		return err
	}
	s.convertBuffersToHalf()
	s.pinElementType(ElementFloat16)
	return s.onnxSession.Run()
}

func looksLikeHalfMismatch(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "float16") || strings.Contains(msg, "half")
}

// convertBuffersToHalf rewrites the host-side input buffers in place to
// their IEEE-754 half encoding, stored back as the bit pattern reinterpreted
// through float32 storage is not possible; this session therefore keeps a
// side buffer of raw half bytes and re-binds the input tensors to it.
func (s *Session) convertBuffersToHalf() {
	halfBin := float32SliceToFloat16(s.binInput)
	halfGlobal := float32SliceToFloat16(s.globalInput)
	s.rebindHalfInputs(halfBin, halfGlobal)
}

// rebindHalfInputs destroys the float32 input tensors and creates float16
// (represented as uint16) tensors in their place, preserving the input
// shapes already negotiated.
func (s *Session) rebindHalfInputs(halfBin, halfGlobal []uint16) {
	if len(s.inputs) < 2 {
		return
	}
	binShape := ort.NewShape(int64(s.staticBatch), int64(feature.NumSpatialPlanes), int64(s.cfg.BoardSize), int64(s.cfg.BoardSize))
	globalShape := ort.NewShape(int64(s.staticBatch), int64(feature.NumGlobalFeatures))

	newBin, err1 := ort.NewTensor(binShape, halfBin)
	newGlobal, err2 := ort.NewTensor(globalShape, halfGlobal)
	if err1 != nil || err2 != nil {
		return
	}
	s.inputs[0].Destroy()
	s.inputs[1].Destroy()
	s.inputs[0] = newBin
	s.inputs[1] = newGlobal
}

func (s *Session) clearBatchTail(filled int) {
	spatialPerItem := len(s.binInput) / s.staticBatch
	globalPerItem := len(s.globalInput) / s.staticBatch
	for i := filled * spatialPerItem; i < len(s.binInput); i++ {
		s.binInput[i] = 0
	}
	for i := filled * globalPerItem; i < len(s.globalInput); i++ {
		s.globalInput[i] = 0
	}
}
