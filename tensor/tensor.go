// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/tensorwire/internal/tensor"
)

// DataType identifies the element type of a tensor.
type DataType = tensor.DataType

// Supported data types.
const (
	Invalid    = tensor.Invalid
	Float32    = tensor.Float32
	Float64    = tensor.Float64
	Int32      = tensor.Int32
	Uint8      = tensor.Uint8
	Int16      = tensor.Int16
	Int8       = tensor.Int8
	String     = tensor.String
	Complex64  = tensor.Complex64
	Int64      = tensor.Int64
	Bool       = tensor.Bool
	Uint16     = tensor.Uint16
	Complex128 = tensor.Complex128
	Uint32     = tensor.Uint32
	Uint64     = tensor.Uint64
)

// Element is the set of Go element types a RawTensor can hold.
type Element = tensor.Element

// Shape is the list of dimensions of a tensor. A nil Shape is a scalar.
type Shape = tensor.Shape

// RawTensor is a typed, shaped, flat element buffer.
//
// Example:
//
//	raw, _ := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
//	data := raw.AsFloat32()
type RawTensor = tensor.RawTensor

// DataTypes returns every supported data type in tag order.
func DataTypes() []DataType {
	return tensor.DataTypes()
}

// ParseDataType parses a data type name such as "float32".
func ParseDataType(name string) (DataType, error) {
	return tensor.ParseDataType(name)
}

// NewRaw allocates a zero-filled tensor.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice[T Element](data []T, shape Shape) (*RawTensor, error) {
	return tensor.FromSlice(data, shape)
}

// Data returns the typed element slice of r. It panics if T does not match
// r's data type.
func Data[T Element](r *RawTensor) []T {
	return tensor.Data[T](r)
}
