package inference

import (
	"fmt"
	"os"

	"google.golang.org/protobuf/encoding/protowire"
)

// The handful of ONNX wire field numbers this file needs to peek at the
// model's first declared input, without depending on internal/modelrewrite
// (which edits the whole graph; this only ever reads two scalars).
const (
	onnxFieldModelGraph  = protowire.Number(7)
	onnxFieldGraphInput  = protowire.Number(11)
	onnxFieldValueType   = protowire.Number(2)
	onnxFieldTypeTensor  = protowire.Number(1)
	onnxFieldTensorElem  = protowire.Number(1)
	onnxFieldTensorShape = protowire.Number(2)
	onnxFieldShapeDim    = protowire.Number(1)
	onnxFieldDimValue    = protowire.Number(1)
	onnxFloat16          = 10
)

type onnxField struct {
	num    protowire.Number
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

func onnxParseFields(data []byte) ([]onnxField, error) {
	var fields []onnxField
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("invalid tag")
		}
		data = data[n:]
		f := onnxField{num: num, typ: typ}
		var consumed int
		switch typ {
		case protowire.VarintType:
			f.varint, consumed = protowire.ConsumeVarint(data)
		case protowire.Fixed32Type:
			_, consumed = protowire.ConsumeFixed32(data)
		case protowire.Fixed64Type:
			_, consumed = protowire.ConsumeFixed64(data)
		case protowire.BytesType:
			f.bytes, consumed = protowire.ConsumeBytes(data)
		default:
			return nil, fmt.Errorf("unsupported wire type %v", typ)
		}
		if consumed < 0 {
			return nil, fmt.Errorf("truncated field %d", num)
		}
		data = data[consumed:]
		fields = append(fields, f)
	}
	return fields, nil
}

func onnxFirst(fields []onnxField, num protowire.Number) (onnxField, bool) {
	for _, f := range fields {
		if f.num == num {
			return f, true
		}
	}
	return onnxField{}, false
}

// firstInputTensorInfo returns the first graph input's element type and
// its first shape dimension (0 if symbolic or absent).
func firstInputTensorInfo(modelBytes []byte) (elemType int32, firstDim int64, err error) {
	fields, err := onnxParseFields(modelBytes)
	if err != nil {
		return 0, 0, err
	}
	graphField, ok := onnxFirst(fields, onnxFieldModelGraph)
	if !ok {
		return 0, 0, fmt.Errorf("model has no graph")
	}
	graphFields, err := onnxParseFields(graphField.bytes)
	if err != nil {
		return 0, 0, err
	}
	inputField, ok := onnxFirst(graphFields, onnxFieldGraphInput)
	if !ok {
		return 0, 0, fmt.Errorf("graph has no inputs")
	}
	inputFields, err := onnxParseFields(inputField.bytes)
	if err != nil {
		return 0, 0, err
	}
	typeField, ok := onnxFirst(inputFields, onnxFieldValueType)
	if !ok {
		return 0, 0, fmt.Errorf("input has no type")
	}
	typeFields, err := onnxParseFields(typeField.bytes)
	if err != nil {
		return 0, 0, err
	}
	tensorField, ok := onnxFirst(typeFields, onnxFieldTypeTensor)
	if !ok {
		return 0, 0, fmt.Errorf("input type is not a tensor")
	}
	tensorFields, err := onnxParseFields(tensorField.bytes)
	if err != nil {
		return 0, 0, err
	}
	if ef, ok := onnxFirst(tensorFields, onnxFieldTensorElem); ok {
		elemType = int32(ef.varint)
	}
	shapeField, ok := onnxFirst(tensorFields, onnxFieldTensorShape)
	if !ok {
		return elemType, 0, nil
	}
	shapeFields, err := onnxParseFields(shapeField.bytes)
	if err != nil {
		return elemType, 0, nil
	}
	dimField, ok := onnxFirst(shapeFields, onnxFieldShapeDim)
	if !ok {
		return elemType, 0, nil
	}
	dimFields, err := onnxParseFields(dimField.bytes)
	if err != nil {
		return elemType, 0, nil
	}
	if dv, ok := onnxFirst(dimFields, onnxFieldDimValue); ok {
		firstDim = int64(dv.varint)
	}
	return elemType, firstDim, nil
}

// detectElementType inspects the model's first input declaration; on any
// lookup failure the caller feeds 32-bit floats.
func detectElementType(modelPath string) (ElementType, error) {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return ElementFloat32, err
	}
	elem, _, err := firstInputTensorInfo(data)
	if err != nil {
		return ElementFloat32, err
	}
	if elem == onnxFloat16 {
		return ElementFloat16, nil
	}
	return ElementFloat32, nil
}

// detectModelBatchDim reads the model's first input's first dimension;
// returns 0 if it is absent, symbolic, or non-positive.
func detectModelBatchDim(modelPath string) int {
	data, err := os.ReadFile(modelPath)
	if err != nil {
		return 0
	}
	_, dim, err := firstInputTensorInfo(data)
	if err != nil || dim <= 0 {
		return 0
	}
	return int(dim)
}

// pinElementType records that an automatic retry converted the runtime to
// the other element type, so subsequent runs skip straight to it.
func (s *Session) pinElementType(t ElementType) {
	s.elementTypeMu.Lock()
	s.elementType = t
	s.elementTypePinned = true
	s.elementTypeMu.Unlock()
}

func (s *Session) currentElementType() ElementType {
	s.elementTypeMu.Lock()
	defer s.elementTypeMu.Unlock()
	return s.elementType
}
