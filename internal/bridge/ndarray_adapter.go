package bridge

import (
	"fmt"

	"github.com/born-ml/tensorwire/internal/ndarray"
	"github.com/born-ml/tensorwire/internal/parallel"
	"github.com/born-ml/tensorwire/internal/tensor"
)

// NDArrayName selects the ndarray adapter.
const NDArrayName = "ndarray"

// ndarrayAdapter binds the bridge to *ndarray.Array values. Element type
// names are Go type names, so "int" and "uint" have no data type.
type ndarrayAdapter struct {
	cfg parallel.Config
}

// NewNDArrayAdapter returns the adapter for the ndarray package.
// cfg controls parallel gathering of strided views.
func NewNDArrayAdapter(cfg parallel.Config) Adapter {
	return &ndarrayAdapter{cfg: cfg}
}

func (n *ndarrayAdapter) Name() string { return NDArrayName }

func (n *ndarrayAdapter) DataTypeFor(elementType string) (tensor.DataType, bool) {
	dt, err := tensor.ParseDataType(elementType)
	if err != nil {
		return tensor.Invalid, false
	}
	return dt, true
}

func (n *ndarrayAdapter) ElementTypeFor(dt tensor.DataType) (string, bool) {
	if !dt.Known() {
		return "", false
	}
	return dt.String(), true
}

func (n *ndarrayAdapter) Elements(a Array, dt tensor.DataType) (any, error) {
	switch buf := a.Buffer().(type) {
	case []float32:
		return elementsOf(n, a, dt, buf)
	case []float64:
		return elementsOf(n, a, dt, buf)
	case []int8:
		return elementsOf(n, a, dt, buf)
	case []int16:
		return elementsOf(n, a, dt, buf)
	case []int32:
		return elementsOf(n, a, dt, buf)
	case []int64:
		return elementsOf(n, a, dt, buf)
	case []uint8:
		return elementsOf(n, a, dt, buf)
	case []uint16:
		return elementsOf(n, a, dt, buf)
	case []uint32:
		return elementsOf(n, a, dt, buf)
	case []uint64:
		return elementsOf(n, a, dt, buf)
	case []bool:
		return elementsOf(n, a, dt, buf)
	case []complex64:
		return elementsOf(n, a, dt, buf)
	case []complex128:
		return elementsOf(n, a, dt, buf)
	case []string:
		return elementsOf(n, a, dt, buf)
	default:
		return nil, &HostTypeError{
			Adapter:     NDArrayName,
			ElementType: a.ElementType(),
			Detail:      fmt.Sprintf("unsupported buffer %T", buf),
		}
	}
}

func elementsOf[T tensor.Element](n *ndarrayAdapter, a Array, dt tensor.DataType, buf []T) (any, error) {
	if got := tensor.DataTypeOf[T](); got != dt {
		return nil, &HostTypeError{
			Adapter:     NDArrayName,
			ElementType: a.ElementType(),
			Detail:      fmt.Sprintf("buffer holds %s, want %s", got, dt),
		}
	}
	out, err := rowMajor(buf, a.Shape(), a.Strides(), a.Offset(), n.cfg)
	if err != nil {
		return nil, &HostTypeError{Adapter: NDArrayName, ElementType: a.ElementType(), Detail: err.Error()}
	}
	return out, nil
}

func (n *ndarrayAdapter) NewArray(dt tensor.DataType, shape tensor.Shape, elems any) (Array, error) {
	switch e := elems.(type) {
	case []float32:
		return newNDArray(e, shape)
	case []float64:
		return newNDArray(e, shape)
	case []int8:
		return newNDArray(e, shape)
	case []int16:
		return newNDArray(e, shape)
	case []int32:
		return newNDArray(e, shape)
	case []int64:
		return newNDArray(e, shape)
	case []uint8:
		return newNDArray(e, shape)
	case []uint16:
		return newNDArray(e, shape)
	case []uint32:
		return newNDArray(e, shape)
	case []uint64:
		return newNDArray(e, shape)
	case []bool:
		return newNDArray(e, shape)
	case []complex64:
		return newNDArray(e, shape)
	case []complex128:
		return newNDArray(e, shape)
	case []string:
		return newNDArray(e, shape)
	default:
		return nil, fmt.Errorf("elements %T do not match %s", elems, dt)
	}
}

func newNDArray[T ndarray.Scalar](elems []T, shape tensor.Shape) (Array, error) {
	a, err := ndarray.FromSlice(elems, shape...)
	if err != nil {
		return nil, err
	}
	return a, nil
}
