package codec

import (
	"fmt"
	"sort"

	"github.com/born-ml/tensorwire/internal/parallel"
	"github.com/born-ml/tensorwire/internal/tensor"
)

// ElementCodec encodes and decodes the flat element buffer of one data type.
type ElementCodec interface {
	// DataType returns the data type this codec handles.
	DataType() tensor.DataType

	// Width returns the encoded size of one element in bytes, or 0 for
	// variable-width encodings.
	Width() int

	// Append appends the encoding of elems, which must be the typed slice
	// for DataType, to dst.
	Append(dst []byte, elems any) ([]byte, error)

	// Decode decodes count elements from the start of src and returns them
	// with the number of bytes consumed. Decode does not require src to be
	// fully consumed.
	Decode(src []byte, count int) (elems any, consumed int, err error)
}

// Registry maps data types to element codecs. A Registry is immutable after
// construction and safe for concurrent use.
type Registry struct {
	codecs map[tensor.DataType]ElementCodec
}

// NewRegistry creates a registry holding the given codecs.
// Registering two codecs for the same data type panics.
func NewRegistry(codecs ...ElementCodec) *Registry {
	r := &Registry{codecs: make(map[tensor.DataType]ElementCodec, len(codecs))}
	for _, c := range codecs {
		dt := c.DataType()
		if _, dup := r.codecs[dt]; dup {
			panic(fmt.Sprintf("codec: duplicate registration for %s", dt))
		}
		r.codecs[dt] = c
	}
	return r
}

// Builtin returns a new instance of every built-in element codec.
// cfg controls chunked conversion of large fixed-width buffers.
func Builtin(cfg parallel.Config) []ElementCodec {
	return []ElementCodec{
		newFloat32Codec(cfg),
		newFloat64Codec(cfg),
		newInt32Codec(cfg),
		newUint8Codec(cfg),
		newInt16Codec(cfg),
		newInt8Codec(cfg),
		stringCodec{},
		newComplex64Codec(cfg),
		newInt64Codec(cfg),
		boolCodec{},
		newUint16Codec(cfg),
		newComplex128Codec(cfg),
		newUint32Codec(cfg),
		newUint64Codec(cfg),
	}
}

var defaultRegistry = NewRegistry(Builtin(parallel.DefaultConfig())...)

// Default returns the shared registry holding every built-in codec.
func Default() *Registry {
	return defaultRegistry
}

// CodecFor returns the codec registered for dt.
func (r *Registry) CodecFor(dt tensor.DataType) (ElementCodec, error) {
	c, ok := r.codecs[dt]
	if !ok {
		return nil, &DTypeError{DType: dt}
	}
	return c, nil
}

// DataTypes returns the registered data types in tag order.
func (r *Registry) DataTypes() []tensor.DataType {
	dts := make([]tensor.DataType, 0, len(r.codecs))
	for dt := range r.codecs {
		dts = append(dts, dt)
	}
	sort.Slice(dts, func(i, j int) bool { return dts[i] < dts[j] })
	return dts
}
