package modelrewrite

import (
	"encoding/binary"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// applyDecompose scans graph nodes in order and replaces every Softplus and
// LogSoftmax node with its decomposition. Returns the
// rewritten graph fields and the number of nodes decomposed.
func applyDecompose(graph []rawField, opts Options) ([]rawField, int) {
	nodeIdxs := allIndices(graph, fieldGraphNode)
	if len(nodeIdxs) == 0 {
		return graph, 0
	}

	nodeSet := make(map[int]bool, len(nodeIdxs))
	for _, i := range nodeIdxs {
		nodeSet[i] = true
	}

	var rebuiltNodes []rawField
	var newValueInfos []rawField
	var newInitializers []rawField
	constNames := map[int32]string{}
	decomposed := 0

	for _, i := range nodeIdxs {
		nf, err := parseFields(graph[i].Bytes)
		if err != nil {
			rebuiltNodes = append(rebuiltNodes, graph[i])
			continue
		}
		switch getString(nf, fieldNodeOpType) {
		case "Softplus":
			nodes, vinfos, initTensor := decomposeSoftplus(nf, graph, constNames)
			rebuiltNodes = append(rebuiltNodes, nodes...)
			newValueInfos = append(newValueInfos, vinfos...)
			if initTensor != nil {
				newInitializers = append(newInitializers, *initTensor)
			}
			decomposed++
		case "LogSoftmax":
			nodes, vinfos := decomposeLogSoftmax(nf, graph)
			rebuiltNodes = append(rebuiltNodes, nodes...)
			newValueInfos = append(newValueInfos, vinfos...)
			decomposed++
		default:
			rebuiltNodes = append(rebuiltNodes, graph[i])
		}
	}
	if decomposed == 0 {
		return graph, 0
	}

	out := make([]rawField, 0, len(graph)+len(newValueInfos)+len(newInitializers))
	inserted := false
	for i, f := range graph {
		if nodeSet[i] {
			if !inserted {
				out = append(out, rebuiltNodes...)
				inserted = true
			}
			continue
		}
		out = append(out, f)
	}
	out = append(out, newValueInfos...)
	out = append(out, newInitializers...)
	return out, decomposed
}

func getString(fields []rawField, num protowire.Number) string {
	if i := firstIndex(fields, num); i >= 0 {
		return string(fields[i].Bytes)
	}
	return ""
}

func getStrings(fields []rawField, num protowire.Number) []string {
	var out []string
	for _, i := range allIndices(fields, num) {
		out = append(out, string(fields[i].Bytes))
	}
	return out
}

func buildNode(opType, name string, inputs, outputs []string, attrs []rawField) rawField {
	var f []rawField
	for _, in := range inputs {
		f = append(f, stringField(fieldNodeInput, in))
	}
	for _, o := range outputs {
		f = append(f, stringField(fieldNodeOutput, o))
	}
	if name != "" {
		f = append(f, stringField(fieldNodeName, name))
	}
	f = append(f, stringField(fieldNodeOpType, opType))
	f = append(f, attrs...)
	return bytesField(fieldGraphNode, encodeFields(f))
}

// findInputType locates the TypeProto.Tensor fields (elem_type, shape) of
// the named value within a graph's input/output/value_info lists.
func findInputType(graph []rawField, name string) (elemType int32, shapeBytes []byte, found bool) {
	search := func(num protowire.Number) (int32, []byte, bool) {
		for _, i := range allIndices(graph, num) {
			vf, err := parseFields(graph[i].Bytes)
			if err != nil {
				continue
			}
			if getString(vf, fieldValueInfoName) != name {
				continue
			}
			ti := firstIndex(vf, fieldValueInfoType)
			if ti < 0 {
				continue
			}
			tf, err := parseFields(vf[ti].Bytes)
			if err != nil {
				continue
			}
			tti := firstIndex(tf, fieldTypeTensor)
			if tti < 0 {
				continue
			}
			ttf, err := parseFields(tf[tti].Bytes)
			if err != nil {
				continue
			}
			var elem int32
			if ei := firstIndex(ttf, fieldTensorTypeElem); ei >= 0 {
				elem = int32(ttf[ei].Varint)
			}
			var shape []byte
			if si := firstIndex(ttf, fieldTensorTypeShape); si >= 0 {
				shape = ttf[si].Bytes
			}
			return elem, shape, true
		}
		return 0, nil, false
	}
	if e, s, ok := search(fieldGraphInput); ok {
		return e, s, true
	}
	if e, s, ok := search(fieldGraphOutput); ok {
		return e, s, true
	}
	if e, s, ok := search(fieldGraphValueInfo); ok {
		return e, s, true
	}
	return dtypeFloat32, nil, false
}

func buildValueInfo(name string, elemType int32, shapeBytes []byte) rawField {
	var ttf []rawField
	ttf = append(ttf, varintField(fieldTensorTypeElem, uint64(elemType)))
	if shapeBytes != nil {
		ttf = append(ttf, bytesField(fieldTensorTypeShape, shapeBytes))
	}
	tf := []rawField{bytesField(fieldTypeTensor, encodeFields(ttf))}
	vf := []rawField{
		stringField(fieldValueInfoName, name),
		bytesField(fieldValueInfoType, encodeFields(tf)),
	}
	return bytesField(fieldGraphValueInfo, encodeFields(vf))
}

// constantOneTensor builds a scalar TensorProto holding the value 1 in the
// given element type, named after the original model-conversion script's
// constant so the provenance of the decomposition is traceable.
func constantOneTensor(elemType int32, name string) rawField {
	var raw []byte
	switch elemType {
	case dtypeFloat16:
		raw = float16One[:]
	default:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(1))
		raw = buf
	}
	tf := []rawField{
		varintField(fieldTensorDataType, uint64(elemType)),
		stringField(fieldTensorName, name),
		bytesField(fieldTensorRawData, raw),
	}
	return bytesField(fieldGraphInitializer, encodeFields(tf))
}

func decomposeSoftplus(nf, graph []rawField, constNames map[int32]string) ([]rawField, []rawField, *rawField) {
	inputs := getStrings(nf, fieldNodeInput)
	outputs := getStrings(nf, fieldNodeOutput)
	name := getString(nf, fieldNodeName)
	if len(inputs) == 0 || len(outputs) == 0 {
		return []rawField{bytesField(fieldGraphNode, encodeFields(nf))}, nil, nil
	}
	x := inputs[0]
	y := outputs[0]
	elemType, shape, _ := findInputType(graph, x)

	var initTensor *rawField
	constName, ok := constNames[elemType]
	if !ok {
		constName = "__webgpu_const_one"
		if elemType != dtypeFloat32 {
			constName = constName + dtypeSuffix(elemType)
		}
		t := constantOneTensor(elemType, constName)
		initTensor = &t
		constNames[elemType] = constName
	}

	absOut := y + "/softplus_abs"
	negOut := y + "/softplus_neg"
	expOut := y + "/softplus_exp"
	addOneOut := y + "/softplus_add_one"
	logOut := y + "/softplus_log"
	reluOut := y + "/softplus_relu"

	nodes := []rawField{
		buildNode("Abs", name+"_abs", []string{x}, []string{absOut}, nil),
		buildNode("Neg", name+"_neg", []string{absOut}, []string{negOut}, nil),
		buildNode("Exp", name+"_exp", []string{negOut}, []string{expOut}, nil),
		buildNode("Add", name+"_add_one", []string{expOut, constName}, []string{addOneOut}, nil),
		buildNode("Log", name+"_log", []string{addOneOut}, []string{logOut}, nil),
		buildNode("Relu", name+"_relu", []string{x}, []string{reluOut}, nil),
		buildNode("Add", name+"_sum", []string{reluOut, logOut}, []string{y}, nil),
	}
	valueInfos := []rawField{
		buildValueInfo(absOut, elemType, shape),
		buildValueInfo(negOut, elemType, shape),
		buildValueInfo(expOut, elemType, shape),
		buildValueInfo(addOneOut, elemType, shape),
		buildValueInfo(logOut, elemType, shape),
		buildValueInfo(reluOut, elemType, shape),
	}
	return nodes, valueInfos, initTensor
}

func decomposeLogSoftmax(nf, graph []rawField) ([]rawField, []rawField) {
	inputs := getStrings(nf, fieldNodeInput)
	outputs := getStrings(nf, fieldNodeOutput)
	name := getString(nf, fieldNodeName)
	if len(inputs) == 0 || len(outputs) == 0 {
		return []rawField{bytesField(fieldGraphNode, encodeFields(nf))}, nil
	}
	x := inputs[0]
	y := outputs[0]
	elemType, shape, _ := findInputType(graph, x)

	var axisAttr []rawField
	if ai := firstIndex(nf, fieldNodeAttribute); ai >= 0 {
		af, err := parseFields(nf[ai].Bytes)
		if err == nil && getString(af, fieldAttrName) == "axis" {
			axisAttr = []rawField{nf[ai]}
		}
	}

	softmaxOut := y + "/logsoftmax_softmax"
	nodes := []rawField{
		buildNode("Softmax", name+"_softmax", []string{x}, []string{softmaxOut}, axisAttr),
		buildNode("Log", name+"_log", []string{softmaxOut}, []string{y}, nil),
	}
	valueInfos := []rawField{buildValueInfo(softmaxOut, elemType, shape)}
	return nodes, valueInfos
}

func dtypeSuffix(elemType int32) string {
	switch elemType {
	case dtypeFloat16:
		return "_f16"
	default:
		return ""
	}
}
