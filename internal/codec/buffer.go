package codec

import (
	"github.com/born-ml/tensorwire/internal/tensor"
)

// BufferCodec encodes and decodes whole element payloads, delegating
// per-element work to the registry's codecs and enforcing that a payload's
// byte length is exactly what its data type and element count predict.
type BufferCodec struct {
	registry *Registry
}

// NewBufferCodec creates a BufferCodec over registry.
// A nil registry selects Default().
func NewBufferCodec(registry *Registry) *BufferCodec {
	if registry == nil {
		registry = Default()
	}
	return &BufferCodec{registry: registry}
}

// Registry returns the registry the codec resolves data types with.
func (b *BufferCodec) Registry() *Registry {
	return b.registry
}

// Encode returns the payload for t's elements.
func (b *BufferCodec) Encode(t *tensor.RawTensor) ([]byte, error) {
	c, err := b.registry.CodecFor(t.DType())
	if err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, encodingFailure("%v", err)
	}

	var dst []byte
	if w := c.Width(); w > 0 {
		dst = make([]byte, 0, t.NumElements()*w)
	}
	return c.Append(dst, t.Elements())
}

// Decode decodes count elements of type dt from payload. The payload must be
// consumed exactly.
func (b *BufferCodec) Decode(dt tensor.DataType, count int, payload []byte) (any, error) {
	c, err := b.registry.CodecFor(dt)
	if err != nil {
		return nil, err
	}

	if w := c.Width(); w > 0 {
		need, ok := byteLen(count, w)
		if !ok || need != len(payload) {
			if !ok {
				need = -1
			}
			return nil, &PayloadSizeError{DType: dt, Count: count, Expected: need, Actual: len(payload)}
		}
	}

	elems, consumed, err := c.Decode(payload, count)
	if err != nil {
		return nil, err
	}
	if consumed != len(payload) {
		return nil, &PayloadSizeError{DType: dt, Count: count, Expected: consumed, Actual: len(payload)}
	}
	return elems, nil
}
