package modelrewrite

import "google.golang.org/protobuf/encoding/protowire"

// Options controls the static-dimension and decomposition passes: a
// {targetBatch, boardSize} option set plus the coprocessor profile flag.
type Options struct {
	TargetBatch int64
	BoardSize   int64
	// Coprocessor selects the profile that also rewrites the named
	// height/width dimensions anywhere they occur, not just as the first
	// dimension of a declaration.
	Coprocessor bool
}

// DefaultOptions returns targetBatch=8 (the GPU graph-capture default);
// callers targeting the neural-coprocessor back-end set TargetBatch=1 and
// Coprocessor=true.
func DefaultOptions(boardSize int) Options {
	return Options{TargetBatch: 8, BoardSize: int64(boardSize)}
}

func (o Options) dimOption(name string) (int64, bool) {
	switch name {
	case "batch_size":
		return o.TargetBatch, true
	case "height", "width":
		if o.Coprocessor {
			return o.BoardSize, true
		}
	}
	return 0, false
}

// applyStaticDims rewrites the first dimension of every tensor shape found
// in graph inputs, outputs, and value_info, plus (in the coprocessor
// profile) every occurrence of a batch_size/height/width named dimension
// anywhere in those shapes. Returns the number of dimensions changed.
func applyStaticDims(graph []rawField, opts Options) ([]rawField, int) {
	changed := 0
	rewriteList := func(num protowire.Number) {
		for _, i := range allIndices(graph, num) {
			vi, n := rewriteValueInfoDims(graph[i].Bytes, opts)
			if n > 0 {
				graph[i].Bytes = vi
				changed += n
			}
		}
	}
	rewriteList(fieldGraphInput)
	rewriteList(fieldGraphOutput)
	rewriteList(fieldGraphValueInfo)
	return graph, changed
}

func rewriteValueInfoDims(data []byte, opts Options) ([]byte, int) {
	fields, err := parseFields(data)
	if err != nil {
		return data, 0
	}
	changed := 0
	ti := firstIndex(fields, fieldValueInfoType)
	if ti < 0 {
		return data, 0
	}
	typeFields, err := parseFields(fields[ti].Bytes)
	if err != nil {
		return data, 0
	}
	tti := firstIndex(typeFields, fieldTypeTensor)
	if tti < 0 {
		return data, 0
	}
	tensorTypeFields, err := parseFields(typeFields[tti].Bytes)
	if err != nil {
		return data, 0
	}
	si := firstIndex(tensorTypeFields, fieldTensorTypeShape)
	if si < 0 {
		return data, 0
	}
	shapeFields, err := parseFields(tensorTypeFields[si].Bytes)
	if err != nil {
		return data, 0
	}

	dimIdx := allIndices(shapeFields, fieldShapeDim)
	for pos, di := range dimIdx {
		newDim, did := rewriteDim(shapeFields[di].Bytes, pos == 0, opts)
		if did {
			shapeFields[di].Bytes = newDim
			changed++
		}
	}
	if changed == 0 {
		return data, 0
	}

	tensorTypeFields[si].Bytes = encodeFields(shapeFields)
	typeFields[tti].Bytes = encodeFields(tensorTypeFields)
	fields[ti].Bytes = encodeFields(typeFields)
	return encodeFields(fields), changed
}

// rewriteDim concretizes a single TensorShapeProto.Dimension. isFirst
// marks whether this is the tensor's leading (batch) dimension, which is
// always eligible for rewriting; non-leading dimensions are only touched
// in the coprocessor profile and only when named batch_size, height or
// width.
func rewriteDim(data []byte, isFirst bool, opts Options) ([]byte, bool) {
	fields, err := parseFields(data)
	if err != nil {
		return data, false
	}
	vi := firstIndex(fields, fieldDimValue)
	if vi >= 0 && int64(fields[vi].Varint) > 0 {
		return data, false // already concrete and positive
	}
	pi := firstIndex(fields, fieldDimParam)
	name := ""
	if pi >= 0 {
		name = string(fields[pi].Bytes)
	}

	var value int64 = 1
	if isFirst {
		lookup := name
		if lookup == "" {
			lookup = "batch_size"
		}
		if v, ok := opts.dimOption(lookup); ok {
			value = v
		}
	} else if opts.Coprocessor {
		v, ok := opts.dimOption(name)
		if !ok {
			return data, false
		}
		value = v
	} else {
		return data, false
	}

	var out []rawField
	for _, f := range fields {
		if f.Num == fieldDimValue || f.Num == fieldDimParam {
			continue
		}
		out = append(out, f)
	}
	out = append([]rawField{varintField(fieldDimValue, uint64(value))}, out...)
	return encodeFields(out), true
}
