// Package inference drives the ONNX Runtime session that evaluates board
// positions: back-end negotiation with fallback, batching, output
// decoding into Black-frame results, and a fingerprint-keyed result cache.
// The batching architecture (bounded queue, single collector goroutine,
// pre-allocated flat float32 buffers) favors throughput over per-request
// latency under load.
package inference

import "github.com/badukstudy/aicore/internal/board"

// Backend names the execution providers negotiated in preference order.
type Backend string

const (
	BackendTensorRT Backend = "tensorrt"
	BackendCUDA     Backend = "cuda"
	BackendDirectML Backend = "directml"
	BackendCPU      Backend = "cpu"
)

// DefaultBackendPreference orders GPU-accelerated providers first, with
// the portable CPU back-end last.
func DefaultBackendPreference() []Backend {
	return []Backend{BackendTensorRT, BackendCUDA, BackendDirectML, BackendCPU}
}

// Config mirrors the inference session constructor inputs.
type Config struct {
	ModelBytes         []byte
	ModelPath          string
	LibPath            string
	BackendPreference  []Backend
	WASMPath           string
	EnableGraphCapture bool
	StaticBatchSize    int // 0 means "derive from model/default"
	BoardSize          int
	Threads            int
	EnableCache        bool
	CacheCapacity      int
}

// MoveSuggestion is one entry of the top-10 policy list.
type MoveSuggestion struct {
	Coord       board.Coord
	CoordString string
	Probability float32
}

// AnalysisResult is the fully decoded, Black-frame output of one position
// evaluation.
type AnalysisResult struct {
	WinRate     float32          // Black-frame win-rate
	ScoreLead   float32          // Black-frame score lead
	Policy      []float32        // length boardSize²+1, softmax over the raw logits
	Suggestions []MoveSuggestion // top 10, ko-filtered, renormalised
	Ownership   []float32        // always nil: the session binds only the policy, value and misc-value outputs and reads no ownership head
}

// FallbackInfo records the back-end negotiation outcome: which back-end
// ended up serving the session and, if it is not the caller's first
// preference, which one was originally requested.
type FallbackInfo struct {
	DidFallback      bool
	RequestedBackend Backend
	ActiveBackend    Backend
}
