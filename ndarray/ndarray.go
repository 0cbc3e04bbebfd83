// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ndarray is a small strided N-dimensional array library whose
// arrays can be passed directly to tensorwire.
//
// Example:
//
//	a, _ := ndarray.FromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
//	v, err := tensorwire.SerializeTensorValue(a.Transpose())
package ndarray

import (
	"github.com/born-ml/tensorwire/internal/ndarray"
)

// Scalar is the set of element types an Array can hold.
type Scalar = ndarray.Scalar

// Array is a strided view over a flat buffer.
type Array[T Scalar] = ndarray.Array[T]

// Zeros allocates a contiguous zero-filled array.
func Zeros[T Scalar](shape ...int) (*Array[T], error) {
	return ndarray.Zeros[T](shape...)
}

// Full allocates a contiguous array with every element set to v.
func Full[T Scalar](v T, shape ...int) (*Array[T], error) {
	return ndarray.Full(v, shape...)
}

// FromSlice creates a contiguous array holding a copy of data.
func FromSlice[T Scalar](data []T, shape ...int) (*Array[T], error) {
	return ndarray.FromSlice(data, shape...)
}

// Wrap creates a contiguous array over data without copying.
func Wrap[T Scalar](data []T, shape ...int) (*Array[T], error) {
	return ndarray.Wrap(data, shape...)
}

// View creates an array over buf with explicit element strides and offset.
func View[T Scalar](buf []T, shape, strides []int, offset int) (*Array[T], error) {
	return ndarray.View(buf, shape, strides, offset)
}
