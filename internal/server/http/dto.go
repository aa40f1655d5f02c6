package httpserver

import (
	"fmt"

	"github.com/badukstudy/aicore/internal/board"
	"github.com/badukstudy/aicore/internal/facade"
	"github.com/badukstudy/aicore/internal/inference"
	"github.com/badukstudy/aicore/internal/vision/classify"
	"github.com/badukstudy/aicore/internal/vision/detect"
	"github.com/badukstudy/aicore/internal/vision/homography"
	"github.com/badukstudy/aicore/internal/vision/posfile"
)

// quadDTO is the wire form of a detected or caller-supplied quad: four
// [x,y] pairs in TL,TR,BR,BL order, matching detect.Quad's field order.
type quadDTO [4][2]float64

func quadFromDTO(q quadDTO) detect.Quad {
	return detect.Quad{
		TL: homography.Point{X: q[0][0], Y: q[0][1]},
		TR: homography.Point{X: q[1][0], Y: q[1][1]},
		BR: homography.Point{X: q[2][0], Y: q[2][1]},
		BL: homography.Point{X: q[3][0], Y: q[3][1]},
	}
}

func quadToDTO(q detect.Quad) quadDTO {
	return quadDTO{
		{q.TL.X, q.TL.Y},
		{q.TR.X, q.TR.Y},
		{q.BR.X, q.BR.Y},
		{q.BL.X, q.BL.Y},
	}
}

type stoneDTO struct {
	Col   int    `json:"col"`
	Row   int    `json:"row"`
	Color string `json:"color"`
}

func stonesToDTO(stones []classify.StonePoint) []stoneDTO {
	out := make([]stoneDTO, len(stones))
	for i, s := range stones {
		out[i] = stoneDTO{Col: s.Col, Row: s.Row, Color: s.Color.String()}
	}
	return out
}

type hintDTO struct {
	Col   int    `json:"col"`
	Row   int    `json:"row"`
	Color string `json:"color"`
}

func hintsFromDTO(dtos []hintDTO) ([]classify.Hint, error) {
	hints := make([]classify.Hint, len(dtos))
	for i, h := range dtos {
		color, err := sideFromString(h.Color)
		if err != nil {
			return nil, err
		}
		hints[i] = classify.Hint{Col: h.Col, Row: h.Row, Color: color}
	}
	return hints, nil
}

func sideFromString(s string) (board.Side, error) {
	switch s {
	case "B", "b", "black":
		return board.Black, nil
	case "W", "w", "white":
		return board.White, nil
	default:
		return board.Empty, fmt.Errorf("unrecognized stone color %q", s)
	}
}

// recognizeBoardRequest carries the raw pixel grid the caller decoded
// client-side, rather than an encoded image format: this transport layer
// has no business owning image codecs, and the façade itself only ever
// works in *image.RGBA.
type recognizeBoardRequest struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	PixelsRGBA []byte `json:"pixels_rgba"`
	BoardSize  int    `json:"board_size"`
	OutputSize int    `json:"output_size"`
}

type recognitionResponse struct {
	SessionID       string     `json:"session_id"`
	BoardSize       int        `json:"board_size"`
	Stones          []stoneDTO `json:"stones"`
	Corners         quadDTO    `json:"corners"`
	CornersDetected bool       `json:"corners_detected"`
	PositionFile    string     `json:"position_file"`
}

func recognitionToDTO(r *facade.RecognitionResult) recognitionResponse {
	return recognitionResponse{
		SessionID:       r.SessionID,
		BoardSize:       r.BoardSize,
		Stones:          stonesToDTO(r.Stones),
		Corners:         quadToDTO(r.Corners),
		CornersDetected: r.CornersDetected,
		PositionFile:    r.PositionFile,
	}
}

type reclassifyWithCornersRequest struct {
	SessionID  string  `json:"session_id"`
	Corners    quadDTO `json:"corners"`
	BoardSize  int     `json:"board_size"`
	OutputSize int     `json:"output_size"`
}

type reclassifyWithHintsRequest struct {
	SessionID  string    `json:"session_id"`
	Corners    quadDTO   `json:"corners"`
	BoardSize  int       `json:"board_size"`
	OutputSize int       `json:"output_size"`
	Hints      []hintDTO `json:"hints"`
}

// analyzePositionRequest names the position by its serialised position
// record, the same wire format recognizeBoard emits, so a caller can
// round-trip a recognition result straight into an analysis call.
type analyzePositionRequest struct {
	PositionRecord string `json:"position_record"`
	NumVisits      int    `json:"num_visits"`
}

func positionFromRecord(record string) (*board.Position, error) {
	size, black, white, err := posfile.Decode(record)
	if err != nil {
		return nil, err
	}
	pos := board.NewEmptyPosition(size)
	for _, s := range black {
		pos.PlaceStone(board.Coord{X: s.Col, Y: s.Row}, board.Black)
	}
	for _, s := range white {
		pos.PlaceStone(board.Coord{X: s.Col, Y: s.Row}, board.White)
	}
	return pos, nil
}

type moveSuggestionDTO struct {
	Coord       string  `json:"coord"`
	Probability float32 `json:"probability"`
}

type analysisResponse struct {
	WinRate     float32             `json:"win_rate"`
	ScoreLead   float32             `json:"score_lead"`
	Visits      int                 `json:"visits"`
	Suggestions []moveSuggestionDTO `json:"suggestions"`
}

func analysisToDTO(r *facade.AnalysisResult) analysisResponse {
	suggestions := make([]moveSuggestionDTO, len(r.Suggestions))
	for i, s := range r.Suggestions {
		suggestions[i] = moveSuggestionDTO{Coord: s.CoordString, Probability: s.Probability}
	}
	return analysisResponse{
		WinRate:     r.WinRate,
		ScoreLead:   r.ScoreLead,
		Visits:      r.Visits,
		Suggestions: suggestions,
	}
}

type analyzeBatchItemDTO struct {
	PositionRecord string `json:"position_record"`
	NumVisits      int    `json:"num_visits"`
}

type analyzeBatchRequest struct {
	Items []analyzeBatchItemDTO `json:"items"`
}

type analyzeBatchResponse struct {
	Results []analysisResponse `json:"results"`
}

// fallbackToDTO surfaces the back-end negotiation outcome so a caller can
// tell the UI it's running in a degraded mode.
type fallbackDTO struct {
	DidFallback      bool   `json:"did_fallback"`
	RequestedBackend string `json:"requested_backend"`
	ActiveBackend    string `json:"active_backend"`
}

func fallbackToDTO(f inference.FallbackInfo) fallbackDTO {
	return fallbackDTO{
		DidFallback:      f.DidFallback,
		RequestedBackend: string(f.RequestedBackend),
		ActiveBackend:    string(f.ActiveBackend),
	}
}
