// Package modelrewrite edits an ONNX model file at the protobuf wire level:
// no .proto is compiled in, so every message is treated as an ordered list
// of (field number, wire type, value) triples, following exactly the field
// layout of onnx.proto3's ModelProto/GraphProto/NodeProto/TensorProto
// family — just the fields the two passes below touch. Everything this
// module does not understand is read as opaque bytes and written back
// unchanged in its original position, so round-tripping an untouched model
// is a byte-for-byte no-op.
package modelrewrite

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// rawField is one field occurrence as it appeared on the wire. Submessages
// and strings both arrive as Bytes; callers that know a field is a
// submessage recursively parse its Bytes.
type rawField struct {
	Num     protowire.Number
	Type    protowire.Type
	Varint  uint64
	Fixed32 uint32
	Fixed64 uint64
	Bytes   []byte
}

func parseFields(data []byte) ([]rawField, error) {
	var fields []rawField
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("modelrewrite: invalid tag: %w", protowire.ParseError(n))
		}
		data = data[n:]
		f := rawField{Num: num, Type: typ}
		var consumed int
		switch typ {
		case protowire.VarintType:
			f.Varint, consumed = protowire.ConsumeVarint(data)
		case protowire.Fixed32Type:
			f.Fixed32, consumed = protowire.ConsumeFixed32(data)
		case protowire.Fixed64Type:
			f.Fixed64, consumed = protowire.ConsumeFixed64(data)
		case protowire.BytesType:
			f.Bytes, consumed = protowire.ConsumeBytes(data)
		default:
			return nil, fmt.Errorf("modelrewrite: unsupported wire type %v on field %d", typ, num)
		}
		if consumed < 0 {
			return nil, fmt.Errorf("modelrewrite: truncated field %d: %w", num, protowire.ParseError(consumed))
		}
		data = data[consumed:]
		fields = append(fields, f)
	}
	return fields, nil
}

func appendField(dst []byte, f rawField) []byte {
	dst = protowire.AppendTag(dst, f.Num, f.Type)
	switch f.Type {
	case protowire.VarintType:
		dst = protowire.AppendVarint(dst, f.Varint)
	case protowire.Fixed32Type:
		dst = protowire.AppendFixed32(dst, f.Fixed32)
	case protowire.Fixed64Type:
		dst = protowire.AppendFixed64(dst, f.Fixed64)
	case protowire.BytesType:
		dst = protowire.AppendBytes(dst, f.Bytes)
	}
	return dst
}

func encodeFields(fields []rawField) []byte {
	var out []byte
	for _, f := range fields {
		out = appendField(out, f)
	}
	return out
}

func varintField(num protowire.Number, v uint64) rawField {
	return rawField{Num: num, Type: protowire.VarintType, Varint: v}
}

func bytesField(num protowire.Number, b []byte) rawField {
	return rawField{Num: num, Type: protowire.BytesType, Bytes: b}
}

func stringField(num protowire.Number, s string) rawField {
	return bytesField(num, []byte(s))
}

// firstIndex returns the index of the first field with the given number,
// or -1.
func firstIndex(fields []rawField, num protowire.Number) int {
	for i, f := range fields {
		if f.Num == num {
			return i
		}
	}
	return -1
}

func allIndices(fields []rawField, num protowire.Number) []int {
	var idx []int
	for i, f := range fields {
		if f.Num == num {
			idx = append(idx, i)
		}
	}
	return idx
}
