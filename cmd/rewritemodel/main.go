// Command rewritemodel applies the static-dimension and operator-
// decomposition passes to an ONNX model file on disk, so a checkpoint
// trained with dynamic batch/board dimensions can be served by the
// graph-capture-friendly inference path.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/badukstudy/aicore/internal/modelrewrite"
)

func main() {
	inPath := flag.String("in", "", "path to the source ONNX model (required)")
	outPath := flag.String("out", "", "path to write the rewritten model (required)")
	boardSize := flag.Int("boardsize", 19, "board size to bake into static spatial dimensions")
	targetBatch := flag.Int("batch", 8, "static batch dimension to bake in")
	coprocessor := flag.Bool("coprocessor", false, "rewrite height/width dims wherever they occur, for the neural-coprocessor back-end")
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		log.Fatal("both -in and -out are required")
	}

	modelBytes, err := os.ReadFile(*inPath)
	if err != nil {
		log.Fatalf("reading %s: %v", *inPath, err)
	}

	opts := modelrewrite.DefaultOptions(*boardSize)
	opts.TargetBatch = int64(*targetBatch)
	opts.Coprocessor = *coprocessor

	result := modelrewrite.Convert(modelBytes, opts)
	if !result.WasConverted {
		log.Printf("%s: not converted (unparseable, or no dims to concretize and no decomposable nodes), writing unchanged copy to %s", *inPath, *outPath)
	} else {
		log.Printf("%s: rewrote %d dims and decomposed %d nodes", *inPath, result.DimsChanged, result.NodesDecomposed)
	}

	if err := os.WriteFile(*outPath, result.Bytes, 0o644); err != nil {
		log.Fatalf("writing %s: %v", *outPath, err)
	}
}
