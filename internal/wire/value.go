package wire

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/born-ml/tensorwire/internal/codec"
	"github.com/born-ml/tensorwire/internal/tensor"
)

// ErrMalformedValue reports transport bytes that are not a wire value.
var ErrMalformedValue = errors.New("malformed wire value")

// Field numbers of the wire value message.
const (
	fieldDType   protowire.Number = 1
	fieldShape   protowire.Number = 2
	fieldContent protowire.Number = 3
)

// Value is one self-describing serialized tensor.
//
// Values are produced by Encoder and consumed by Decoder; everything else
// treats them as opaque and must not modify the byte slices.
type Value struct {
	DType   tensor.DataType // element type tag
	Shape   []byte          // shape encoding (see codec.EncodeShape)
	Payload []byte          // element payload
}

// Marshal returns the transport encoding of v: a protobuf message with the
// dtype (field 1, varint), shape (field 2, bytes) and content (field 3,
// bytes). Every field is written exactly once in field order, so equal
// values always marshal to equal bytes.
func (v *Value) Marshal() []byte {
	size := protowire.SizeTag(fieldDType) + protowire.SizeVarint(uint64(v.DType)) +
		protowire.SizeTag(fieldShape) + protowire.SizeBytes(len(v.Shape)) +
		protowire.SizeTag(fieldContent) + protowire.SizeBytes(len(v.Payload))
	return v.AppendMarshal(make([]byte, 0, size))
}

// AppendMarshal appends the transport encoding of v to b.
func (v *Value) AppendMarshal(b []byte) []byte {
	b = protowire.AppendTag(b, fieldDType, protowire.VarintType)
	//nolint:gosec // G115: negative tags round-trip through int32 sign extension
	b = protowire.AppendVarint(b, uint64(v.DType))
	b = protowire.AppendTag(b, fieldShape, protowire.BytesType)
	b = protowire.AppendBytes(b, v.Shape)
	b = protowire.AppendTag(b, fieldContent, protowire.BytesType)
	b = protowire.AppendBytes(b, v.Payload)
	return b
}

// Unmarshal parses the transport encoding produced by Marshal.
// The returned value's slices alias b.
func Unmarshal(b []byte) (*Value, error) {
	v := &Value{}
	var seenDType, seenShape, seenContent bool

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("%w: tag: %w", ErrMalformedValue, protowire.ParseError(n))
		}
		b = b[n:]

		switch num {
		case fieldDType:
			if typ != protowire.VarintType || seenDType {
				return nil, fieldError(num, typ, seenDType)
			}
			x, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: dtype: %w", ErrMalformedValue, protowire.ParseError(n))
			}
			//nolint:gosec // G115: tags are int32 on the wire
			v.DType = tensor.DataType(int32(x))
			seenDType = true
			b = b[n:]
		case fieldShape, fieldContent:
			seen := &seenShape
			dst := &v.Shape
			if num == fieldContent {
				seen = &seenContent
				dst = &v.Payload
			}
			if typ != protowire.BytesType || *seen {
				return nil, fieldError(num, typ, *seen)
			}
			x, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, fmt.Errorf("%w: field %d: %w", ErrMalformedValue, num, protowire.ParseError(n))
			}
			*dst = x
			*seen = true
			b = b[n:]
		default:
			return nil, fmt.Errorf("%w: unknown field %d", ErrMalformedValue, num)
		}
	}

	if !seenDType {
		return nil, fmt.Errorf("%w: missing dtype", ErrMalformedValue)
	}
	if !seenShape {
		return nil, fmt.Errorf("%w: missing shape", ErrMalformedValue)
	}
	return v, nil
}

func fieldError(num protowire.Number, typ protowire.Type, dup bool) error {
	if dup {
		return fmt.Errorf("%w: duplicate field %d", ErrMalformedValue, num)
	}
	return fmt.Errorf("%w: field %d has wire type %d", ErrMalformedValue, num, typ)
}

// DecodedShape decodes the shape encoding carried by v.
func (v *Value) DecodedShape() (tensor.Shape, error) {
	return codec.DecodeShape(v.Shape)
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	return &Value{
		DType:   v.DType,
		Shape:   append([]byte(nil), v.Shape...),
		Payload: append([]byte(nil), v.Payload...),
	}
}
