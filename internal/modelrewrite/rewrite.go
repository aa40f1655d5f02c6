package modelrewrite

import "google.golang.org/protobuf/encoding/protowire"

// Result is the outcome of Convert.
type Result struct {
	Bytes           []byte
	WasConverted    bool
	DimsChanged     int
	NodesDecomposed int
}

// Convert applies the static-dimension pass and the operator-decomposition
// pass to an ONNX model file's raw bytes. On any parse failure the
// original bytes are returned unchanged with WasConverted false; Convert
// never panics on malformed input.
func Convert(modelBytes []byte, opts Options) Result {
	fields, err := parseFields(modelBytes)
	if err != nil {
		return Result{Bytes: modelBytes, WasConverted: false}
	}

	gi := firstIndex(fields, fieldModelGraph)
	if gi < 0 {
		return Result{Bytes: modelBytes, WasConverted: false}
	}
	graph, err := parseFields(fields[gi].Bytes)
	if err != nil {
		return Result{Bytes: modelBytes, WasConverted: false}
	}

	graph, dimsChanged := applyStaticDims(graph, opts)
	graph, decomposed := applyDecompose(graph, opts)

	if dimsChanged == 0 && decomposed == 0 {
		return Result{Bytes: modelBytes, WasConverted: false}
	}

	fields[gi] = rawField{Num: fieldModelGraph, Type: protowire.BytesType, Bytes: encodeFields(graph)}
	return Result{
		Bytes:           encodeFields(fields),
		WasConverted:    true,
		DimsChanged:     dimsChanged,
		NodesDecomposed: decomposed,
	}
}
