package modelrewrite

import "google.golang.org/protobuf/encoding/protowire"

// Field numbers below are exactly the ones onnx.proto3 assigns to the
// messages this package touches, reproduced here because no .proto file
// is compiled into this module; this is a minimal hand-written schema
// covering only the fields actually used.
const (
	fieldModelGraph = protowire.Number(7)

	fieldGraphNode        = protowire.Number(1)
	fieldGraphInput       = protowire.Number(11)
	fieldGraphOutput      = protowire.Number(12)
	fieldGraphValueInfo   = protowire.Number(13)
	fieldGraphInitializer = protowire.Number(5)

	fieldNodeInput     = protowire.Number(1)
	fieldNodeOutput    = protowire.Number(2)
	fieldNodeName      = protowire.Number(3)
	fieldNodeOpType    = protowire.Number(4)
	fieldNodeAttribute = protowire.Number(5)

	fieldAttrName = protowire.Number(1)
	fieldAttrI    = protowire.Number(3)

	fieldValueInfoName = protowire.Number(1)
	fieldValueInfoType = protowire.Number(2)

	fieldTypeTensor = protowire.Number(1)

	fieldTensorTypeElem  = protowire.Number(1)
	fieldTensorTypeShape = protowire.Number(2)

	fieldShapeDim = protowire.Number(1)

	fieldDimValue = protowire.Number(1)
	fieldDimParam = protowire.Number(2)

	fieldTensorDims     = protowire.Number(1)
	fieldTensorDataType = protowire.Number(2)
	fieldTensorName     = protowire.Number(8)
	fieldTensorRawData  = protowire.Number(9)
)

// ONNX TensorProto.DataType values this package needs to recognize.
const (
	dtypeFloat32 = 1
	dtypeFloat16 = 10
)

var float16One = [2]byte{0x00, 0x3C} // IEEE-754 half encoding of 1.0
