package inference

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/badukstudy/aicore/internal/aierr"
	"github.com/badukstudy/aicore/internal/board"
	"github.com/badukstudy/aicore/internal/feature"
)

const (
	maxBatchSize = 64
	batchTimeout = 1 * time.Millisecond
)

// ElementType is the numeric type the model's first declared input
// expects.
type ElementType int

const (
	ElementFloat32 ElementType = iota
	ElementFloat16
)

type evalRequest struct {
	pos    *board.Position
	result chan evalOutcome
}

type evalOutcome struct {
	result *AnalysisResult
	err    error
}

// Session owns one compiled ONNX Runtime session plus the pre-allocated
// buffers every run writes into: it exclusively owns the compiled graph
// and any device-resident buffers.
type Session struct {
	cfg    Config
	logger Logger

	onnxSession *ort.AdvancedSession

	binInput     []float32
	globalInput  []float32
	policyOut    []float32
	valueOut     []float32
	miscOut      []float32
	ownershipOut []float32
	hasOwnership bool

	inputs  []ort.Value
	outputs []ort.Value

	elementType       ElementType
	elementTypePinned bool
	elementTypeMu     sync.Mutex

	staticBatch int
	fallback    FallbackInfo

	queue chan evalRequest
	quit  chan struct{}

	cache *resultCache

	mu sync.Mutex // serializes session.Run calls; the underlying ORT session is not reentrant
}

// Logger is the minimal structured-logging surface the session needs; a
// *zap.SugaredLogger satisfies it directly.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugw(string, ...interface{}) {}
func (noopLogger) Warnw(string, ...interface{})  {}
func (noopLogger) Errorw(string, ...interface{}) {}

// NewSession negotiates a back-end from cfg.BackendPreference (trying each
// in order, recording a fallback marker when the first choice fails),
// determines the static batch size and input element type, pre-allocates
// the dense buffers, and starts the batching collector goroutine.
func NewSession(cfg Config, logger Logger) (*Session, error) {
	if logger == nil {
		logger = noopLogger{}
	}
	if !board.IsSupportedSize(cfg.BoardSize) {
		return nil, aierr.Newf(aierr.KindConfiguration, "unsupported board size %d", cfg.BoardSize)
	}
	prefs := cfg.BackendPreference
	if len(prefs) == 0 {
		prefs = DefaultBackendPreference()
	}

	modelPath, err := resolveModelPath(cfg.ModelPath)
	if err != nil {
		return nil, aierr.Wrap(aierr.KindLoad, err, "resolving model path")
	}

	staticBatch := cfg.StaticBatchSize
	if staticBatch <= 0 {
		staticBatch = detectModelBatchDim(modelPath)
	}
	if staticBatch <= 0 {
		staticBatch = maxBatchSize
	}
	if cfg.EnableGraphCapture {
		staticBatch = 1
	}

	elemType, err := detectElementType(modelPath)
	if err != nil {
		logger.Debugw("input element type lookup failed, defaulting to float32", "err", err)
		elemType = ElementFloat32
	}

	s := &Session{
		cfg:         cfg,
		logger:      logger,
		elementType: elemType,
		staticBatch: staticBatch,
		queue:       make(chan evalRequest, staticBatch*10),
		quit:        make(chan struct{}),
	}
	if cfg.EnableCache {
		capacity := cfg.CacheCapacity
		if capacity <= 0 {
			capacity = 500_000
		}
		s.cache = newResultCache(capacity)
	}

	s.allocateBuffers(staticBatch)

	if err := s.initializeEnvironment(); err != nil {
		return nil, aierr.Wrap(aierr.KindLoad, err, "initializing onnxruntime environment")
	}

	if err := s.negotiateBackend(modelPath, prefs); err != nil {
		return nil, aierr.Wrap(aierr.KindLoad, err, "session creation failed on every back-end")
	}

	go s.batchLoop()
	return s, nil
}

func (s *Session) allocateBuffers(batch int) {
	spatialLen := feature.NumSpatialPlanes * s.cfg.BoardSize * s.cfg.BoardSize
	policyLen := s.cfg.BoardSize*s.cfg.BoardSize + 1

	s.binInput = make([]float32, batch*spatialLen)
	s.globalInput = make([]float32, batch*feature.NumGlobalFeatures)
	s.policyOut = make([]float32, batch*policyLen)
	s.valueOut = make([]float32, batch*3)
	s.miscOut = make([]float32, batch*10) // misc-value head width per KataGo schema; position 2 is score lead
}

func (s *Session) initializeEnvironment() error {
	absCache, _ := filepath.Abs("trt_cache")
	_ = os.MkdirAll(absCache, 0o755)

	setNativeEnv("ORT_TENSORRT_ENGINE_CACHE_ENABLE", "1")
	setNativeEnv("ORT_TENSORRT_ENGINE_CACHE_PATH", absCache)
	setNativeEnv("ORT_TENSORRT_TIMING_CACHE_ENABLE", "1")
	setNativeEnv("ORT_TENSORRT_TIMING_CACHE_PATH", absCache)
	setNativeEnv("ORT_TENSORRT_FP16_ENABLE", "1")
	setNativeEnv("ORT_LOGGING_LEVEL", "3")

	if ort.IsInitialized() {
		return nil
	}
	libPath, err := resolveORTSharedLibraryPath(s.cfg.LibPath)
	if err != nil {
		return err
	}
	configureORTSearchPath(filepath.Dir(libPath))
	ort.SetSharedLibraryPath(libPath)
	return ort.InitializeEnvironment()
}

func (s *Session) negotiateBackend(modelPath string, prefs []Backend) error {
	requested := prefs[0]
	boardSize := int64(s.cfg.BoardSize)
	policyLen := boardSize*boardSize + 1

	inputNames := []string{"bin_inputs", "global_inputs"}
	outputNames := []string{"policy", "value", "miscvalue"}

	binShape := ort.NewShape(int64(s.staticBatch), int64(feature.NumSpatialPlanes), boardSize, boardSize)
	globalShape := ort.NewShape(int64(s.staticBatch), int64(feature.NumGlobalFeatures))
	policyShape := ort.NewShape(int64(s.staticBatch), policyLen)
	valueShape := ort.NewShape(int64(s.staticBatch), 3)
	miscShape := ort.NewShape(int64(s.staticBatch), int64(len(s.miscOut)/s.staticBatch))

	for attempt, backend := range prefs {
		inputTensor1, err1 := ort.NewTensor(binShape, s.binInput)
		inputTensor2, err2 := ort.NewTensor(globalShape, s.globalInput)
		outputTensor1, err3 := ort.NewTensor(policyShape, s.policyOut)
		outputTensor2, err4 := ort.NewTensor(valueShape, s.valueOut)
		outputTensor3, err5 := ort.NewTensor(miscShape, s.miscOut)
		if err := firstErr(err1, err2, err3, err4, err5); err != nil {
			return err
		}
		inputs := []ort.Value{inputTensor1, inputTensor2}
		outputs := []ort.Value{outputTensor1, outputTensor2, outputTensor3}

		so, err := ort.NewSessionOptions()
		if err != nil {
			return err
		}
		_ = so.SetLogSeverityLevel(3)

		if err := appendProvider(so, backend); err != nil {
			s.logger.Warnw("backend setup failed", "backend", backend, "err", err)
			so.Destroy()
			destroyAll(inputs, outputs)
			continue
		}

		sess, err := ort.NewAdvancedSession(modelPath, inputNames, outputNames, inputs, outputs, so)
		so.Destroy()
		if err != nil {
			s.logger.Warnw("session creation failed", "backend", backend, "err", err)
			destroyAll(inputs, outputs)
			continue
		}
		if err := sess.Run(); err != nil { // warm-up run
			s.logger.Warnw("warm-up run failed", "backend", backend, "err", err)
			sess.Destroy()
			destroyAll(inputs, outputs)
			continue
		}

		s.onnxSession = sess
		s.inputs = inputs
		s.outputs = outputs
		s.fallback = FallbackInfo{
			DidFallback:      attempt > 0,
			RequestedBackend: requested,
			ActiveBackend:    backend,
		}
		if backend == BackendCPU {
			// Portable fallback: graph capture and device binding are unsafe here.
			s.cfg.EnableGraphCapture = false
		}
		return nil
	}
	return fmt.Errorf("no execution provider could be initialized")
}

func appendProvider(so *ort.SessionOptions, backend Backend) error {
	switch backend {
	case BackendTensorRT:
		opts, err := ort.NewTensorRTProviderOptions()
		if err != nil {
			return err
		}
		defer opts.Destroy()
		return so.AppendExecutionProviderTensorRT(opts)
	case BackendCUDA:
		opts, err := ort.NewCUDAProviderOptions()
		if err != nil {
			return err
		}
		defer opts.Destroy()
		return so.AppendExecutionProviderCUDA(opts)
	case BackendDirectML:
		return so.AppendExecutionProviderDirectML(0)
	case BackendCPU:
		return nil
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}
}

func destroyAll(groups ...[]ort.Value) {
	for _, g := range groups {
		for _, v := range g {
			v.Destroy()
		}
	}
}

func firstErr(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Close releases the session and every tensor it owns, including the
// pre-allocated input and output tensors every run writes into.
func (s *Session) Close() {
	close(s.quit)
	if s.onnxSession != nil {
		s.onnxSession.Destroy()
	}
	destroyAll(s.inputs, s.outputs)
}

func (s *Session) Fallback() FallbackInfo { return s.fallback }
