package bridge

import (
	"fmt"
	"slices"

	"github.com/born-ml/tensorwire/internal/codec"
	"github.com/born-ml/tensorwire/internal/tensor"
)

// RawViewName selects the raw view adapter.
const RawViewName = "rawview"

// RawView is a contiguous row-major byte buffer tagged with a
// safetensors-style dtype name ("F32", "I64", "BOOL", ...). Data holds the
// elements in the little-endian wire layout.
type RawView struct {
	DType string
	Dims  []int
	Data  []byte
}

// ElementType returns the dtype name.
func (v *RawView) ElementType() string { return v.DType }

// Shape returns the dimensions.
func (v *RawView) Shape() []int { return slices.Clone(v.Dims) }

// Strides returns nil; raw views are always row-major.
func (v *RawView) Strides() []int { return nil }

// Offset returns 0.
func (v *RawView) Offset() int { return 0 }

// Buffer returns Data.
func (v *RawView) Buffer() any { return v.Data }

// F16, BF16 and the float8 variants are deliberately absent.
var rawViewNames = map[string]tensor.DataType{
	"F32":  tensor.Float32,
	"F64":  tensor.Float64,
	"I8":   tensor.Int8,
	"I16":  tensor.Int16,
	"I32":  tensor.Int32,
	"I64":  tensor.Int64,
	"U8":   tensor.Uint8,
	"U16":  tensor.Uint16,
	"U32":  tensor.Uint32,
	"U64":  tensor.Uint64,
	"BOOL": tensor.Bool,
	"C64":  tensor.Complex64,
	"C128": tensor.Complex128,
}

type rawViewAdapter struct {
	buffers *codec.BufferCodec
}

// NewRawViewAdapter returns the adapter for *RawView values. Buffers are
// decoded and encoded with the codecs in registry (nil selects the default).
func NewRawViewAdapter(registry *codec.Registry) Adapter {
	return &rawViewAdapter{buffers: codec.NewBufferCodec(registry)}
}

func (r *rawViewAdapter) Name() string { return RawViewName }

func (r *rawViewAdapter) DataTypeFor(elementType string) (tensor.DataType, bool) {
	dt, ok := rawViewNames[elementType]
	return dt, ok
}

func (r *rawViewAdapter) ElementTypeFor(dt tensor.DataType) (string, bool) {
	for name, d := range rawViewNames {
		if d == dt {
			return name, true
		}
	}
	return "", false
}

func (r *rawViewAdapter) Elements(a Array, dt tensor.DataType) (any, error) {
	fail := func(format string, args ...any) error {
		return &HostTypeError{Adapter: RawViewName, ElementType: a.ElementType(), Detail: fmt.Sprintf(format, args...)}
	}

	data, ok := a.Buffer().([]byte)
	if !ok {
		return nil, fail("unsupported buffer %T", a.Buffer())
	}
	shape := tensor.Shape(a.Shape())
	if strides := a.Strides(); strides != nil {
		if len(strides) != len(shape) {
			return nil, fail("%d strides for rank %d", len(strides), len(shape))
		}
		if !isRowMajor(shape, strides) {
			return nil, fail("strided raw views are not supported")
		}
	}
	if a.Offset() != 0 {
		return nil, fail("offset %d not supported", a.Offset())
	}
	n, err := shape.CheckedNumElements()
	if err != nil {
		return nil, fail("%v", err)
	}

	elems, err := r.buffers.Decode(dt, n, data)
	if err != nil {
		return nil, fail("%v", err)
	}
	return elems, nil
}

func (r *rawViewAdapter) NewArray(dt tensor.DataType, shape tensor.Shape, elems any) (Array, error) {
	name, ok := r.ElementTypeFor(dt)
	if !ok {
		return nil, fmt.Errorf("no raw view dtype for %s", dt)
	}
	c, err := r.buffers.Registry().CodecFor(dt)
	if err != nil {
		return nil, err
	}

	n, _, _ := tensor.ElementsLen(elems)
	data, err := c.Append(make([]byte, 0, n*c.Width()), elems)
	if err != nil {
		return nil, err
	}
	return &RawView{DType: name, Dims: slices.Clone(shape), Data: data}, nil
}
