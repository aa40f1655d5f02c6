// Command analysiscli is a debug driver: load a position record, run one
// analysis against it, and print the decoded result as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/badukstudy/aicore/internal/board"
	"github.com/badukstudy/aicore/internal/inference"
	"github.com/badukstudy/aicore/internal/obslog"
	"github.com/badukstudy/aicore/internal/search"
	"github.com/badukstudy/aicore/internal/vision/posfile"
)

func main() {
	modelPath := flag.String("model", "model.onnx", "path to ONNX model file")
	libPath := flag.String("lib", "onnxruntime.so", "path to the onnxruntime shared library")
	posPath := flag.String("pos", "", "path to a position-record file; an empty board is used if omitted")
	boardSize := flag.Int("boardsize", 19, "board size, used when -pos is omitted")
	visits := flag.Int("visits", 1, "PUCT visits to run; 1 skips search and reports the raw network evaluation")
	debug := flag.Bool("debug", false, "enable development-mode logging")
	flag.Parse()

	logger, err := obslog.New(*debug)
	if err != nil {
		log.Fatalf("building logger: %v", err)
	}
	defer logger.Sync()

	pos, size, err := loadPosition(*posPath, *boardSize)
	if err != nil {
		log.Fatalf("loading position: %v", err)
	}

	sess, err := inference.NewSession(inference.Config{
		ModelPath: *modelPath,
		LibPath:   *libPath,
		BoardSize: size,
	}, logger)
	if err != nil {
		log.Fatalf("starting inference session: %v", err)
	}
	defer sess.Close()

	baseline, err := sess.Run(pos)
	if err != nil {
		log.Fatalf("running analysis: %v", err)
	}

	visitCount := 1
	if *visits > 1 {
		root := search.NewRootFromResult(pos, baseline)
		if err := search.Run(root, sess, *visits); err != nil {
			log.Fatalf("running search: %v", err)
		}
		visitCount = root.N
		baseline.WinRate = float32(root.Q())
		if suggestions := search.VisitDistribution(root, size); suggestions != nil {
			baseline.Suggestions = suggestions
		}
	}

	out := struct {
		Visits int `json:"visits"`
		*inference.AnalysisResult
	}{Visits: visitCount, AnalysisResult: baseline}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encoding result: %v", err)
	}
}

func loadPosition(path string, fallbackSize int) (*board.Position, int, error) {
	if path == "" {
		return board.NewEmptyPosition(fallbackSize), fallbackSize, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}
	size, black, white, err := posfile.Decode(string(data))
	if err != nil {
		return nil, 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	pos := board.NewEmptyPosition(size)
	for _, s := range black {
		pos.PlaceStone(board.Coord{X: s.Col, Y: s.Row}, board.Black)
	}
	for _, s := range white {
		pos.PlaceStone(board.Coord{X: s.Col, Y: s.Row}, board.White)
	}
	return pos, size, nil
}
