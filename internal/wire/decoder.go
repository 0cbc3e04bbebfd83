package wire

import (
	"fmt"

	"github.com/born-ml/tensorwire/internal/codec"
	"github.com/born-ml/tensorwire/internal/tensor"
)

// Decoder reconstructs tensors from wire values.
// A Decoder holds no mutable state and is safe for concurrent use.
type Decoder struct {
	buffers *codec.BufferCodec
}

// NewDecoder creates a Decoder resolving data types through registry.
// A nil registry selects codec.Default().
func NewDecoder(registry *codec.Registry) *Decoder {
	return &Decoder{buffers: codec.NewBufferCodec(registry)}
}

// Decode reconstructs the tensor carried by v. Decoding is all-or-nothing:
// on failure the returned tensor is nil.
//
// Checks run in order: data type, shape, payload.
func (d *Decoder) Decode(v *Value) (*tensor.RawTensor, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil value", ErrMalformedValue)
	}
	if _, err := d.buffers.Registry().CodecFor(v.DType); err != nil {
		return nil, err
	}

	shape, err := codec.DecodeShape(v.Shape)
	if err != nil {
		return nil, err
	}

	elems, err := d.buffers.Decode(v.DType, shape.NumElements(), v.Payload)
	if err != nil {
		return nil, err
	}

	return tensor.FromElements(v.DType, shape, elems)
}

// DecodeBytes parses a transport encoding and decodes the tensor it carries.
func (d *Decoder) DecodeBytes(b []byte) (*tensor.RawTensor, error) {
	v, err := Unmarshal(b)
	if err != nil {
		return nil, err
	}
	return d.Decode(v)
}
