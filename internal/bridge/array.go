package bridge

import (
	"github.com/born-ml/tensorwire/internal/tensor"
)

// Array is the capability set the bridge needs from a host array.
//
// Host array libraries satisfy it directly or through a thin wrapper; the
// bridge never inspects concrete types beyond what an Adapter does.
type Array interface {
	// ElementType names the element type in the host library's vocabulary.
	ElementType() string

	// Shape returns the dimensions.
	Shape() []int

	// Strides returns per-dimension element strides into Buffer.
	// nil means contiguous row-major.
	Strides() []int

	// Offset returns the buffer index of the first element.
	Offset() int

	// Buffer returns the backing storage.
	Buffer() any
}

// Adapter binds the bridge to one host array library.
type Adapter interface {
	// Name identifies the adapter in configuration.
	Name() string

	// DataTypeFor maps a host element type to a data type.
	DataTypeFor(elementType string) (tensor.DataType, bool)

	// ElementTypeFor maps a data type to a host element type.
	ElementTypeFor(dt tensor.DataType) (string, bool)

	// Elements copies a's elements in row-major order into a new typed slice
	// for dt.
	Elements(a Array, dt tensor.DataType) (any, error)

	// NewArray allocates a host array of the given shape holding elems,
	// which is the typed slice for dt in row-major order.
	NewArray(dt tensor.DataType, shape tensor.Shape, elems any) (Array, error)
}
