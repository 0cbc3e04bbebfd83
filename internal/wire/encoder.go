package wire

import (
	"fmt"

	"github.com/born-ml/tensorwire/internal/codec"
	"github.com/born-ml/tensorwire/internal/tensor"
)

// Encoder serializes tensors into wire values.
// An Encoder holds no mutable state and is safe for concurrent use.
type Encoder struct {
	buffers *codec.BufferCodec
}

// NewEncoder creates an Encoder resolving data types through registry.
// A nil registry selects codec.Default().
func NewEncoder(registry *codec.Registry) *Encoder {
	return &Encoder{buffers: codec.NewBufferCodec(registry)}
}

// Encode serializes t. On failure it returns a nil Value; no partially
// built value is ever returned.
func (e *Encoder) Encode(t *tensor.RawTensor) (*Value, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil tensor", codec.ErrEncodingFailure)
	}
	if _, err := e.buffers.Registry().CodecFor(t.DType()); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", codec.ErrEncodingFailure, t.DType(), err)
	}

	shape, err := codec.EncodeShape(t.Shape())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", codec.ErrEncodingFailure, err)
	}
	payload, err := e.buffers.Encode(t)
	if err != nil {
		return nil, err
	}

	return &Value{
		DType:   t.DType(),
		Shape:   shape,
		Payload: payload,
	}, nil
}

// EncodeBytes serializes t directly to its transport encoding.
func (e *Encoder) EncodeBytes(t *tensor.RawTensor) ([]byte, error) {
	v, err := e.Encode(t)
	if err != nil {
		return nil, err
	}
	return v.Marshal(), nil
}
