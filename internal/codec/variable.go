package codec

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/born-ml/tensorwire/internal/tensor"
)

// boolCodec encodes one byte per element: 0x00 for false, 0x01 for true.
// Booleans are never bit-packed.
type boolCodec struct{}

func (boolCodec) DataType() tensor.DataType { return tensor.Bool }

func (boolCodec) Width() int { return 1 }

func (boolCodec) Append(dst []byte, elems any) ([]byte, error) {
	src, ok := elems.([]bool)
	if !ok {
		return nil, encodingFailure("bool codec cannot encode %T", elems)
	}
	for _, v := range src {
		if v {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	}
	return dst, nil
}

func (boolCodec) Decode(src []byte, count int) (any, int, error) {
	if count < 0 || len(src) < count {
		return nil, 0, &PayloadSizeError{DType: tensor.Bool, Count: count, Expected: count, Actual: len(src)}
	}
	out := make([]bool, count)
	for i, b := range src[:count] {
		switch b {
		case 0:
		case 1:
			out[i] = true
		default:
			return nil, 0, &ElementError{DType: tensor.Bool, Index: i, Value: b}
		}
	}
	return out, count, nil
}

// stringCodec encodes each element as a varint byte length followed by the
// raw bytes. Strings are byte sequences; UTF-8 validity is not checked.
type stringCodec struct{}

func (stringCodec) DataType() tensor.DataType { return tensor.String }

func (stringCodec) Width() int { return 0 }

func (stringCodec) Append(dst []byte, elems any) ([]byte, error) {
	src, ok := elems.([]string)
	if !ok {
		return nil, encodingFailure("string codec cannot encode %T", elems)
	}
	for _, s := range src {
		dst = protowire.AppendString(dst, s)
	}
	return dst, nil
}

func (stringCodec) Decode(src []byte, count int) (any, int, error) {
	if count < 0 {
		return nil, 0, &PayloadSizeError{DType: tensor.String, Count: count, Expected: -1, Actual: len(src)}
	}
	// Every element needs at least one length byte.
	if count > len(src) {
		return nil, 0, &PayloadSizeError{DType: tensor.String, Count: count, Expected: -1, Actual: len(src)}
	}

	out := make([]string, count)
	off := 0
	for i := range out {
		v, n := protowire.ConsumeBytes(src[off:])
		if n < 0 {
			return nil, 0, &PayloadSizeError{DType: tensor.String, Count: count, Expected: -1, Actual: len(src)}
		}
		out[i] = string(v)
		off += n
	}
	return out, off, nil
}
