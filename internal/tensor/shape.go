package tensor

import (
	"fmt"
	"math/bits"
)

// Shape represents the dimensions of a tensor.
// A nil or empty Shape describes a scalar.
type Shape []int

// NumElements returns the total number of elements in the tensor.
// Callers must Validate the shape first; overflow is not detected here.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every dimension is non-negative and that the element
// count fits in an int.
func (s Shape) Validate() error {
	_, err := s.CheckedNumElements()
	return err
}

// CheckedNumElements returns the element count, failing on negative
// dimensions or overflow.
func (s Shape) CheckedNumElements() (int, error) {
	empty := false
	for i, dim := range s {
		if dim < 0 {
			return 0, fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
		if dim == 0 {
			empty = true
		}
	}
	if empty {
		return 0, nil
	}

	n := uint64(1)
	for _, dim := range s {
		hi, lo := bits.Mul64(n, uint64(dim))
		if hi != 0 || lo > maxInt {
			return 0, fmt.Errorf("shape %v: element count overflows int", []int(s))
		}
		n = lo
	}
	return int(n), nil
}

const maxInt = uint64(int(^uint(0) >> 1))

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}
