// Package httpserver exposes internal/facade's recognition and analysis
// API over JSON, following a manual switch-on-path Handler plus writeJSON
// shape generalised from a move-by-move game server's API to the façade's
// recognize/reclassify/analyze calls.
package httpserver

import (
	"encoding/json"
	"fmt"
	"image"
	"log"
	"net/http"

	"github.com/badukstudy/aicore/internal/aierr"
	"github.com/badukstudy/aicore/internal/facade"
)

// Handler implements http.Handler for the /api/* routes, backed by a
// single shared façade instance — the same async boundary a native UI
// would call into directly.
type Handler struct {
	facade *facade.Facade
}

func NewHandler(f *facade.Facade) *Handler {
	return &Handler{facade: f}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	switch r.URL.Path {
	case "/api/recognize":
		h.handleRecognize(w, r)
	case "/api/reclassify/corners":
		h.handleReclassifyWithCorners(w, r)
	case "/api/reclassify/hints":
		h.handleReclassifyWithHints(w, r)
	case "/api/analyze":
		h.handleAnalyze(w, r)
	case "/api/analyze/batch":
		h.handleAnalyzeBatch(w, r)
	case "/api/cancel":
		h.handleCancel(w, r)
	case "/api/status":
		h.handleStatus(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleRecognize(w http.ResponseWriter, r *http.Request) {
	var req recognizeBoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	img, err := rgbaFromPixels(req.Width, req.Height, req.PixelsRGBA)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v, err := h.facade.RecognizeBoard(img, facade.Options{
		BoardSize:  req.BoardSize,
		OutputSize: req.OutputSize,
	}).Wait()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, recognitionToDTO(v.(*facade.RecognitionResult)))
}

func (h *Handler) handleReclassifyWithCorners(w http.ResponseWriter, r *http.Request) {
	var req reclassifyWithCornersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	sess, err := h.facade.Session(req.SessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	v, err := h.facade.ReclassifyWithCorners(sess.Image, quadFromDTO(req.Corners), facade.Options{
		BoardSize:  req.BoardSize,
		OutputSize: req.OutputSize,
	}).Wait()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, recognitionToDTO(v.(*facade.RecognitionResult)))
}

func (h *Handler) handleReclassifyWithHints(w http.ResponseWriter, r *http.Request) {
	var req reclassifyWithHintsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	sess, err := h.facade.Session(req.SessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	hints, err := hintsFromDTO(req.Hints)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v, err := h.facade.ReclassifyWithHints(sess.Image, quadFromDTO(req.Corners), hints, facade.Options{
		BoardSize:  req.BoardSize,
		OutputSize: req.OutputSize,
	}).Wait()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, recognitionToDTO(v.(*facade.RecognitionResult)))
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzePositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	pos, err := positionFromRecord(req.PositionRecord)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v, err := h.facade.AnalyzePosition(pos, facade.AnalyzeOptions{NumVisits: req.NumVisits}).Wait()
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, analysisToDTO(v.(*facade.AnalysisResult)))
}

func (h *Handler) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var req analyzeBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	items := make([]facade.BatchItem, len(req.Items))
	for i, it := range req.Items {
		pos, err := positionFromRecord(it.PositionRecord)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		items[i] = facade.BatchItem{Pos: pos, Options: facade.AnalyzeOptions{NumVisits: it.NumVisits}}
	}

	v, err := h.facade.AnalyzeBatch(items).Wait()
	if err != nil {
		writeErr(w, err)
		return
	}
	results := v.([]*facade.AnalysisResult)
	resp := analyzeBatchResponse{Results: make([]analysisResponse, len(results))}
	for i, r := range results {
		resp.Results[i] = analysisToDTO(r)
	}
	writeJSON(w, resp)
}

// handleCancel rejects every pending request without tearing down the
// façade's worker, the cancelAll().
func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	h.facade.CancelAll()
	w.WriteHeader(http.StatusNoContent)
}

// handleStatus reports the negotiated inference back-end, so the UI can
// tell the caller it's running in a degraded mode.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	fb, ok := h.facade.Fallback()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, fallbackToDTO(fb))
}

func rgbaFromPixels(width, height int, pixels []byte) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("width and height must be positive")
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixels_rgba length %d does not match %dx%d RGBA", len(pixels), width, height)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	copy(img.Pix, pixels)
	return img, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("writeJSON error:", err)
	}
}

// writeErr maps a façade error to an HTTP status: cancelled requests (a
// superseded sequence, or a disposed façade) are reported as 409 Conflict
// rather than 500, everything else is an internal error.
func writeErr(w http.ResponseWriter, err error) {
	if aierr.Is(err, aierr.KindCancelled) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
