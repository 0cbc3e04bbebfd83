package tensor

import (
	"fmt"
	"math"
)

// RawTensor is the internal tensor representation: a data type, a shape and
// a flat, row-major element slice whose Go type matches the data type
// ([]float32 for Float32, []string for String, ...).
//
// A RawTensor exclusively owns its elements. Constructors either copy their
// input or document that they take ownership of it.
type RawTensor struct {
	dtype DataType
	shape Shape
	data  any
}

// NewRaw creates a zero-filled RawTensor with the given shape and type.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	n, err := shape.CheckedNumElements()
	if err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	data, err := MakeElements(dtype, n)
	if err != nil {
		return nil, err
	}

	return &RawTensor{
		dtype: dtype,
		shape: shape.Clone(),
		data:  data,
	}, nil
}

// FromSlice creates a RawTensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T Element](data []T, shape Shape) (*RawTensor, error) {
	n, err := shape.CheckedNumElements()
	if err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, n, len(data))
	}

	elems := make([]T, len(data))
	copy(elems, data)

	return &RawTensor{
		dtype: DataTypeOf[T](),
		shape: shape.Clone(),
		data:  elems,
	}, nil
}

// FromElements creates a RawTensor that takes ownership of elems, which must
// be the typed slice matching dtype. The caller must not retain elems.
func FromElements(dtype DataType, shape Shape, elems any) (*RawTensor, error) {
	r := &RawTensor{
		dtype: dtype,
		shape: shape.Clone(),
		data:  elems,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// MakeElements allocates a zeroed element slice of length n for dtype.
func MakeElements(dtype DataType, n int) (any, error) {
	switch dtype {
	case Float32:
		return make([]float32, n), nil
	case Float64:
		return make([]float64, n), nil
	case Int8:
		return make([]int8, n), nil
	case Int16:
		return make([]int16, n), nil
	case Int32:
		return make([]int32, n), nil
	case Int64:
		return make([]int64, n), nil
	case Uint8:
		return make([]uint8, n), nil
	case Uint16:
		return make([]uint16, n), nil
	case Uint32:
		return make([]uint32, n), nil
	case Uint64:
		return make([]uint64, n), nil
	case Bool:
		return make([]bool, n), nil
	case Complex64:
		return make([]complex64, n), nil
	case Complex128:
		return make([]complex128, n), nil
	case String:
		return make([]string, n), nil
	default:
		return nil, fmt.Errorf("unknown data type %s", dtype)
	}
}

// ElementsLen returns the length of a typed element slice and the data type
// its Go element type maps to. ok is false if elems is not a supported slice.
func ElementsLen(elems any) (n int, dtype DataType, ok bool) {
	switch e := elems.(type) {
	case []float32:
		return len(e), Float32, true
	case []float64:
		return len(e), Float64, true
	case []int8:
		return len(e), Int8, true
	case []int16:
		return len(e), Int16, true
	case []int32:
		return len(e), Int32, true
	case []int64:
		return len(e), Int64, true
	case []uint8:
		return len(e), Uint8, true
	case []uint16:
		return len(e), Uint16, true
	case []uint32:
		return len(e), Uint32, true
	case []uint64:
		return len(e), Uint64, true
	case []bool:
		return len(e), Bool, true
	case []complex64:
		return len(e), Complex64, true
	case []complex128:
		return len(e), Complex128, true
	case []string:
		return len(e), String, true
	default:
		return 0, Invalid, false
	}
}

// Validate checks the tensor invariants: a valid shape, an element slice
// whose type matches the data type and whose length equals the element count.
func (r *RawTensor) Validate() error {
	n, err := r.shape.CheckedNumElements()
	if err != nil {
		return fmt.Errorf("invalid shape: %w", err)
	}
	got, dtype, ok := ElementsLen(r.data)
	if !ok {
		return fmt.Errorf("unsupported element buffer %T", r.data)
	}
	if dtype != r.dtype {
		return fmt.Errorf("element buffer is %s, tensor dtype is %s", dtype, r.dtype)
	}
	if got != n {
		return fmt.Errorf("shape %v requires %d elements, buffer holds %d", []int(r.shape), n, got)
	}
	return nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// Elements returns the typed element slice.
// WARNING: Direct access to underlying memory.
func (r *RawTensor) Elements() any {
	return r.data
}

// Data returns the tensor's elements as []T.
// Panics if T does not match the tensor's dtype.
func Data[T Element](r *RawTensor) []T {
	data, ok := r.data.([]T)
	if !ok {
		panic(fmt.Sprintf("tensor dtype is %s, not %s", r.dtype, DataTypeOf[T]()))
	}
	return data
}

// AsFloat32 returns the data as []float32.
// Panics if the tensor's dtype is not Float32.
func (r *RawTensor) AsFloat32() []float32 { return Data[float32](r) }

// AsFloat64 returns the data as []float64.
// Panics if the tensor's dtype is not Float64.
func (r *RawTensor) AsFloat64() []float64 { return Data[float64](r) }

// AsInt32 returns the data as []int32.
// Panics if the tensor's dtype is not Int32.
func (r *RawTensor) AsInt32() []int32 { return Data[int32](r) }

// AsInt64 returns the data as []int64.
// Panics if the tensor's dtype is not Int64.
func (r *RawTensor) AsInt64() []int64 { return Data[int64](r) }

// AsUint8 returns the data as []uint8.
// Panics if the tensor's dtype is not Uint8.
func (r *RawTensor) AsUint8() []uint8 { return Data[uint8](r) }

// AsBool returns the data as []bool.
// Panics if the tensor's dtype is not Bool.
func (r *RawTensor) AsBool() []bool { return Data[bool](r) }

// AsString returns the data as []string.
// Panics if the tensor's dtype is not String.
func (r *RawTensor) AsString() []string { return Data[string](r) }

// Clone creates a deep copy of the RawTensor.
func (r *RawTensor) Clone() *RawTensor {
	n, _, _ := ElementsLen(r.data)
	data, err := MakeElements(r.dtype, n)
	if err != nil {
		panic(err)
	}
	copyElements(data, r.data)
	return &RawTensor{
		dtype: r.dtype,
		shape: r.shape.Clone(),
		data:  data,
	}
}

// BitEqual reports whether two tensors have the same dtype, shape and
// element bit patterns. Floating point elements are compared by their IEEE
// bits, so NaN equals an identical NaN and -0 differs from +0.
func (r *RawTensor) BitEqual(other *RawTensor) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.dtype != other.dtype || !r.shape.Equal(other.shape) {
		return false
	}

	switch a := r.data.(type) {
	case []float32:
		b := other.data.([]float32)
		return sliceEqual(a, b, func(x, y float32) bool {
			return math.Float32bits(x) == math.Float32bits(y)
		})
	case []float64:
		b := other.data.([]float64)
		return sliceEqual(a, b, func(x, y float64) bool {
			return math.Float64bits(x) == math.Float64bits(y)
		})
	case []complex64:
		b := other.data.([]complex64)
		return sliceEqual(a, b, func(x, y complex64) bool {
			return math.Float32bits(real(x)) == math.Float32bits(real(y)) &&
				math.Float32bits(imag(x)) == math.Float32bits(imag(y))
		})
	case []complex128:
		b := other.data.([]complex128)
		return sliceEqual(a, b, func(x, y complex128) bool {
			return math.Float64bits(real(x)) == math.Float64bits(real(y)) &&
				math.Float64bits(imag(x)) == math.Float64bits(imag(y))
		})
	case []int8:
		return sliceEqual(a, other.data.([]int8), eq[int8])
	case []int16:
		return sliceEqual(a, other.data.([]int16), eq[int16])
	case []int32:
		return sliceEqual(a, other.data.([]int32), eq[int32])
	case []int64:
		return sliceEqual(a, other.data.([]int64), eq[int64])
	case []uint8:
		return sliceEqual(a, other.data.([]uint8), eq[uint8])
	case []uint16:
		return sliceEqual(a, other.data.([]uint16), eq[uint16])
	case []uint32:
		return sliceEqual(a, other.data.([]uint32), eq[uint32])
	case []uint64:
		return sliceEqual(a, other.data.([]uint64), eq[uint64])
	case []bool:
		return sliceEqual(a, other.data.([]bool), eq[bool])
	case []string:
		return sliceEqual(a, other.data.([]string), eq[string])
	default:
		return false
	}
}

func eq[T comparable](x, y T) bool { return x == y }

func sliceEqual[T any](a, b []T, same func(x, y T) bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !same(a[i], b[i]) {
			return false
		}
	}
	return true
}

// copyElements copies between two typed slices of the same element type.
func copyElements(dst, src any) {
	switch d := dst.(type) {
	case []float32:
		copy(d, src.([]float32))
	case []float64:
		copy(d, src.([]float64))
	case []int8:
		copy(d, src.([]int8))
	case []int16:
		copy(d, src.([]int16))
	case []int32:
		copy(d, src.([]int32))
	case []int64:
		copy(d, src.([]int64))
	case []uint8:
		copy(d, src.([]uint8))
	case []uint16:
		copy(d, src.([]uint16))
	case []uint32:
		copy(d, src.([]uint32))
	case []uint64:
		copy(d, src.([]uint64))
	case []bool:
		copy(d, src.([]bool))
	case []complex64:
		copy(d, src.([]complex64))
	case []complex128:
		copy(d, src.([]complex128))
	case []string:
		copy(d, src.([]string))
	}
}
