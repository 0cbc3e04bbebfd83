// Package ndarray is a small strided N-dimensional array library.
//
// It plays the role of a host runtime's native array type: arrays own a flat
// buffer and address it through per-dimension element strides and an offset,
// so views such as Transpose share memory with their source.
package ndarray

import (
	"fmt"
	"slices"
)

// Scalar is the set of element types an Array can hold.
// int and uint are accepted even though their width is platform dependent.
type Scalar interface {
	float32 | float64 |
		int8 | int16 | int32 | int64 | int |
		uint8 | uint16 | uint32 | uint64 | uint |
		bool | complex64 | complex128 | string
}

// Array is a strided view over a flat buffer of T.
//
// Example:
//
//	a, _ := ndarray.FromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
//	b := a.Transpose()   // shape [3, 2], shares a's buffer
//	v := b.At(2, 1)      // 6
type Array[T Scalar] struct {
	data    []T
	shape   []int
	strides []int
	offset  int
}

// Zeros allocates a contiguous zero-filled array.
func Zeros[T Scalar](shape ...int) (*Array[T], error) {
	n, err := numElements(shape)
	if err != nil {
		return nil, err
	}
	return &Array[T]{
		data:    make([]T, n),
		shape:   slices.Clone(shape),
		strides: rowMajorStrides(shape),
	}, nil
}

// Full allocates a contiguous array with every element set to v.
func Full[T Scalar](v T, shape ...int) (*Array[T], error) {
	a, err := Zeros[T](shape...)
	if err != nil {
		return nil, err
	}
	for i := range a.data {
		a.data[i] = v
	}
	return a, nil
}

// FromSlice creates a contiguous array holding a copy of data.
func FromSlice[T Scalar](data []T, shape ...int) (*Array[T], error) {
	n, err := numElements(shape)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("ndarray: shape %v requires %d elements, got %d", shape, n, len(data))
	}
	return &Array[T]{
		data:    slices.Clone(data),
		shape:   slices.Clone(shape),
		strides: rowMajorStrides(shape),
	}, nil
}

// Wrap creates a contiguous array over data without copying.
func Wrap[T Scalar](data []T, shape ...int) (*Array[T], error) {
	return View(data, shape, nil, 0)
}

// View creates an array over buf with explicit element strides and offset.
// A nil strides slice means row-major. Every addressable element must lie
// inside buf.
func View[T Scalar](buf []T, shape, strides []int, offset int) (*Array[T], error) {
	n, err := numElements(shape)
	if err != nil {
		return nil, err
	}
	if strides == nil {
		strides = rowMajorStrides(shape)
	}
	if len(strides) != len(shape) {
		return nil, fmt.Errorf("ndarray: %d strides for rank %d", len(strides), len(shape))
	}
	if n > 0 {
		lo, hi, ok := extent(shape, strides, offset)
		if !ok {
			return nil, fmt.Errorf("ndarray: strides %v overflow", strides)
		}
		if lo < 0 || hi >= len(buf) {
			return nil, fmt.Errorf("ndarray: view [%d, %d] outside buffer of %d elements", lo, hi, len(buf))
		}
	}
	return &Array[T]{
		data:    buf,
		shape:   slices.Clone(shape),
		strides: slices.Clone(strides),
		offset:  offset,
	}, nil
}

// ElementType returns the Go name of T, e.g. "float32".
func (a *Array[T]) ElementType() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// Shape returns a copy of the dimensions.
func (a *Array[T]) Shape() []int {
	return slices.Clone(a.shape)
}

// Strides returns a copy of the element strides.
func (a *Array[T]) Strides() []int {
	return slices.Clone(a.strides)
}

// Offset returns the buffer index of the first element.
func (a *Array[T]) Offset() int {
	return a.offset
}

// Buffer returns the backing []T. It may be shared with other views.
func (a *Array[T]) Buffer() any {
	return a.data
}

// Data returns the backing buffer.
func (a *Array[T]) Data() []T {
	return a.data
}

// Rank returns the number of dimensions.
func (a *Array[T]) Rank() int {
	return len(a.shape)
}

// Size returns the number of addressable elements.
func (a *Array[T]) Size() int {
	n := 1
	for _, d := range a.shape {
		n *= d
	}
	return n
}

// IsContiguous reports whether the array is a row-major view starting at
// offset zero.
func (a *Array[T]) IsContiguous() bool {
	return a.offset == 0 && slices.Equal(a.strides, rowMajorStrides(a.shape))
}

// At returns the element at the given indices.
// Panics if indices are out of bounds.
func (a *Array[T]) At(indices ...int) T {
	return a.data[a.index(indices)]
}

// Set sets the element at the given indices.
// Panics if indices are out of bounds.
func (a *Array[T]) Set(v T, indices ...int) {
	a.data[a.index(indices)] = v
}

func (a *Array[T]) index(indices []int) int {
	if len(indices) != len(a.shape) {
		panic(fmt.Sprintf("ndarray: expected %d indices, got %d", len(a.shape), len(indices)))
	}
	pos := a.offset
	for i, idx := range indices {
		if idx < 0 || idx >= a.shape[i] {
			panic(fmt.Sprintf("ndarray: index %d out of bounds for dimension %d (size %d)", idx, i, a.shape[i]))
		}
		pos += idx * a.strides[i]
	}
	return pos
}

// Transpose returns a view with permuted axes. With no arguments the axes
// are reversed.
func (a *Array[T]) Transpose(axes ...int) *Array[T] {
	rank := len(a.shape)
	if len(axes) == 0 {
		axes = make([]int, rank)
		for i := range axes {
			axes[i] = rank - 1 - i
		}
	}
	if len(axes) != rank {
		panic(fmt.Sprintf("ndarray: transpose needs %d axes, got %d", rank, len(axes)))
	}

	seen := make([]bool, rank)
	shape := make([]int, rank)
	strides := make([]int, rank)
	for i, ax := range axes {
		if ax < 0 || ax >= rank || seen[ax] {
			panic(fmt.Sprintf("ndarray: invalid transpose axes %v", axes))
		}
		seen[ax] = true
		shape[i] = a.shape[ax]
		strides[i] = a.strides[ax]
	}
	return &Array[T]{data: a.data, shape: shape, strides: strides, offset: a.offset}
}

// Flip returns a view with dimension axis reversed.
func (a *Array[T]) Flip(axis int) *Array[T] {
	if axis < 0 || axis >= len(a.shape) {
		panic(fmt.Sprintf("ndarray: flip axis %d out of range for rank %d", axis, len(a.shape)))
	}
	v := &Array[T]{
		data:    a.data,
		shape:   slices.Clone(a.shape),
		strides: slices.Clone(a.strides),
		offset:  a.offset,
	}
	if a.shape[axis] > 0 {
		v.offset += (a.shape[axis] - 1) * a.strides[axis]
	}
	v.strides[axis] = -a.strides[axis]
	return v
}

// Slice returns a view of indices [start, end) along axis.
func (a *Array[T]) Slice(axis, start, end int) *Array[T] {
	if axis < 0 || axis >= len(a.shape) {
		panic(fmt.Sprintf("ndarray: slice axis %d out of range for rank %d", axis, len(a.shape)))
	}
	if start < 0 || end > a.shape[axis] || start > end {
		panic(fmt.Sprintf("ndarray: slice [%d:%d] out of range for dimension %d (size %d)", start, end, axis, a.shape[axis]))
	}
	v := &Array[T]{
		data:    a.data,
		shape:   slices.Clone(a.shape),
		strides: slices.Clone(a.strides),
		offset:  a.offset + start*a.strides[axis],
	}
	v.shape[axis] = end - start
	return v
}

// Reshape returns a view with a new shape. Only contiguous arrays can be
// reshaped.
func (a *Array[T]) Reshape(shape ...int) (*Array[T], error) {
	if !a.IsContiguous() {
		return nil, fmt.Errorf("ndarray: reshape of non-contiguous array")
	}
	n, err := numElements(shape)
	if err != nil {
		return nil, err
	}
	if n != a.Size() {
		return nil, fmt.Errorf("ndarray: cannot reshape %v to %v", a.shape, shape)
	}
	return &Array[T]{data: a.data, shape: slices.Clone(shape), strides: rowMajorStrides(shape)}, nil
}

// Contiguous returns a row-major copy of the addressable elements.
func (a *Array[T]) Contiguous() *Array[T] {
	out := make([]T, 0, a.Size())
	a.Each(func(v T) { out = append(out, v) })
	return &Array[T]{data: out, shape: slices.Clone(a.shape), strides: rowMajorStrides(a.shape)}
}

// Each calls f for every element in row-major order.
func (a *Array[T]) Each(f func(T)) {
	if a.Size() == 0 {
		return
	}
	idx := make([]int, len(a.shape))
	pos := a.offset
	for {
		f(a.data[pos])
		d := len(a.shape) - 1
		for ; d >= 0; d-- {
			idx[d]++
			pos += a.strides[d]
			if idx[d] < a.shape[d] {
				break
			}
			pos -= idx[d] * a.strides[d]
			idx[d] = 0
		}
		if d < 0 {
			return
		}
	}
}

// String returns a human-readable summary.
func (a *Array[T]) String() string {
	return fmt.Sprintf("Array[%s]%v", a.ElementType(), a.shape)
}

func numElements(shape []int) (int, error) {
	n := 1
	for i, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("ndarray: invalid dimension at index %d: %d", i, d)
		}
		if d != 0 && n > maxInt/d {
			return 0, fmt.Errorf("ndarray: shape %v overflows", shape)
		}
		n *= d
	}
	return n, nil
}

const maxInt = int(^uint(0) >> 1)

func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	stride := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= max(shape[i], 1)
	}
	return strides
}

// extent returns the lowest and highest buffer index a non-empty view
// reaches. ok is false if the computation overflows.
func extent(shape, strides []int, offset int) (lo, hi int, ok bool) {
	lo, hi = offset, offset
	for i, d := range shape {
		s := strides[i]
		if d <= 1 || s == 0 {
			continue
		}
		steps := d - 1
		if s > maxInt/steps || s < -(maxInt/steps) {
			return 0, 0, false
		}
		span := s * steps
		if span > 0 {
			if hi > maxInt-span {
				return 0, 0, false
			}
			hi += span
		} else {
			if lo < -maxInt-span {
				return 0, 0, false
			}
			lo += span
		}
	}
	return lo, hi, true
}
