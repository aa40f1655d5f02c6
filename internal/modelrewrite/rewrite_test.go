package modelrewrite

import (
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func dimParamBytes(name string) []byte {
	return encodeFields([]rawField{stringField(fieldDimParam, name)})
}

func dimValueBytes(v int64) []byte {
	return encodeFields([]rawField{varintField(fieldDimValue, uint64(v))})
}

func shapeBytes(dims ...[]byte) []byte {
	var f []rawField
	for _, d := range dims {
		f = append(f, bytesField(fieldShapeDim, d))
	}
	return encodeFields(f)
}

func tensorTypeBytes(elem int32, shape []byte) []byte {
	f := []rawField{varintField(fieldTensorTypeElem, uint64(elem))}
	if shape != nil {
		f = append(f, bytesField(fieldTensorTypeShape, shape))
	}
	return encodeFields(f)
}

func typeProtoBytes(tensorType []byte) []byte {
	return encodeFields([]rawField{bytesField(fieldTypeTensor, tensorType)})
}

func valueInfoField(num protowire.Number, name string, typeBytes []byte) rawField {
	vf := encodeFields([]rawField{
		stringField(fieldValueInfoName, name),
		bytesField(fieldValueInfoType, typeBytes),
	})
	return bytesField(num, vf)
}

func buildTestModel(t *testing.T) []byte {
	t.Helper()
	xShape := shapeBytes(dimParamBytes("batch_size"), dimValueBytes(10))
	xInput := valueInfoField(fieldGraphInput, "x", typeProtoBytes(tensorTypeBytes(dtypeFloat32, xShape)))
	aInput := valueInfoField(fieldGraphInput, "a", typeProtoBytes(tensorTypeBytes(dtypeFloat32, nil)))

	yOutput := valueInfoField(fieldGraphOutput, "y", typeProtoBytes(tensorTypeBytes(dtypeFloat32, xShape)))
	bOutput := valueInfoField(fieldGraphOutput, "b", typeProtoBytes(tensorTypeBytes(dtypeFloat32, nil)))

	softplusNode := buildNode("Softplus", "softplus1", []string{"x"}, []string{"y"}, nil)

	axisAttr := bytesField(fieldNodeAttribute, encodeFields([]rawField{
		stringField(fieldAttrName, "axis"),
		varintField(fieldAttrI, 1),
	}))
	logSoftmaxNode := buildNode("LogSoftmax", "ls1", []string{"a"}, []string{"b"}, []rawField{axisAttr})

	graph := encodeFields([]rawField{xInput, aInput, yOutput, bOutput, softplusNode, logSoftmaxNode})
	model := encodeFields([]rawField{bytesField(fieldModelGraph, graph)})
	return model
}

func TestConvertDecomposesAndConcretizes(t *testing.T) {
	model := buildTestModel(t)
	opts := DefaultOptions(19)

	res := Convert(model, opts)
	if !res.WasConverted {
		t.Fatalf("expected conversion to apply")
	}
	if res.DimsChanged < 1 {
		t.Fatalf("expected at least one dimension to be concretized, got %d", res.DimsChanged)
	}
	if res.NodesDecomposed != 2 {
		t.Fatalf("expected 2 nodes decomposed (Softplus + LogSoftmax), got %d", res.NodesDecomposed)
	}

	fields, err := parseFields(res.Bytes)
	if err != nil {
		t.Fatalf("re-parsing converted model failed: %v", err)
	}
	gi := firstIndex(fields, fieldModelGraph)
	if gi < 0 {
		t.Fatalf("converted model missing graph field")
	}
	graph, err := parseFields(fields[gi].Bytes)
	if err != nil {
		t.Fatalf("re-parsing converted graph failed: %v", err)
	}
	for _, ni := range allIndices(graph, fieldGraphNode) {
		nf, err := parseFields(graph[ni].Bytes)
		if err != nil {
			t.Fatalf("re-parsing node failed: %v", err)
		}
		op := getString(nf, fieldNodeOpType)
		if op == "Softplus" || op == "LogSoftmax" {
			t.Fatalf("expected no remaining %s nodes after decomposition", op)
		}
	}

	res2 := Convert(res.Bytes, opts)
	if res2.WasConverted {
		t.Fatalf("expected idempotence: second conversion should be a no-op")
	}
}
