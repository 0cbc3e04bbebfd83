// Package bridge converts between tensors and host arrays.
//
// A Bridge is bound to one Adapter, chosen by configuration, that knows the
// host library's element type vocabulary and buffer layout. Arrays are
// always copied across the boundary; neither side aliases the other.
package bridge

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/born-ml/tensorwire/internal/codec"
	"github.com/born-ml/tensorwire/internal/tensor"
)

// Config configures a Bridge.
type Config struct {
	// Registry decides which data types may cross the bridge.
	// nil selects codec.Default().
	Registry *codec.Registry

	// MaxElements caps the element count of arrays allocated by ToHost.
	// Zero or negative means no cap.
	MaxElements int
}

// Bridge converts tensors to and from one host array library.
// A Bridge is immutable and safe for concurrent use.
type Bridge struct {
	adapter     Adapter
	registry    *codec.Registry
	maxElements int
}

// New creates a Bridge over adapter.
func New(adapter Adapter, cfg Config) *Bridge {
	if cfg.Registry == nil {
		cfg.Registry = codec.Default()
	}
	return &Bridge{
		adapter:     adapter,
		registry:    cfg.Registry,
		maxElements: cfg.MaxElements,
	}
}

// Adapter returns the adapter the bridge is bound to.
func (b *Bridge) Adapter() Adapter {
	return b.adapter
}

// FromHost copies a host array into a new tensor in row-major order.
func (b *Bridge) FromHost(a Array) (*tensor.RawTensor, error) {
	if a == nil {
		return nil, b.fail(&HostTypeError{Adapter: b.adapter.Name(), Detail: "nil array"})
	}

	et := a.ElementType()
	dt, ok := b.adapter.DataTypeFor(et)
	if !ok {
		return nil, b.fail(&HostTypeError{Adapter: b.adapter.Name(), ElementType: et})
	}
	if _, err := b.registry.CodecFor(dt); err != nil {
		return nil, b.fail(&HostTypeError{
			Adapter:     b.adapter.Name(),
			ElementType: et,
			Detail:      fmt.Sprintf("data type %s is not registered", dt),
		})
	}

	shape := tensor.Shape(a.Shape())
	if err := shape.Validate(); err != nil {
		return nil, b.fail(&HostTypeError{Adapter: b.adapter.Name(), ElementType: et, Detail: err.Error()})
	}

	elems, err := b.adapter.Elements(a, dt)
	if err != nil {
		return nil, b.fail(err)
	}

	t, err := tensor.FromElements(dt, shape, elems)
	if err != nil {
		return nil, b.fail(&HostTypeError{Adapter: b.adapter.Name(), ElementType: et, Detail: err.Error()})
	}
	return t, nil
}

// ToHost allocates a new host array holding a copy of t.
//
// Allocation failures, including an invalid shape, an element count over
// the configured cap and a runtime allocation panic, return an
// *AllocationError.
func (b *Bridge) ToHost(t *tensor.RawTensor) (arr Array, err error) {
	if t == nil {
		return nil, b.fail(&AllocationError{Reason: "nil tensor"})
	}

	dt, shape := t.DType(), t.Shape()
	if _, ok := b.adapter.ElementTypeFor(dt); !ok {
		return nil, b.fail(&HostTypeError{
			Adapter: b.adapter.Name(),
			Detail:  fmt.Sprintf("no host element type for %s", dt),
		})
	}

	n, err := shape.CheckedNumElements()
	if err != nil {
		return nil, b.fail(&AllocationError{DType: dt, Shape: shape, Reason: "invalid shape", Err: err})
	}
	if b.maxElements > 0 && n > b.maxElements {
		return nil, b.fail(&AllocationError{
			DType:  dt,
			Shape:  shape,
			Reason: fmt.Sprintf("%d elements exceed the limit of %d", n, b.maxElements),
		})
	}
	if err := t.Validate(); err != nil {
		return nil, b.fail(&AllocationError{DType: dt, Shape: shape, Reason: "invalid tensor", Err: err})
	}

	defer func() {
		if r := recover(); r != nil {
			arr = nil
			err = b.fail(&AllocationError{DType: dt, Shape: shape, Reason: fmt.Sprintf("allocation panicked: %v", r)})
		}
	}()

	arr, err = b.adapter.NewArray(dt, shape, t.Elements())
	if err != nil {
		return nil, b.fail(&AllocationError{DType: dt, Shape: shape, Reason: "adapter allocation failed", Err: err})
	}
	return arr, nil
}

func (b *Bridge) fail(err error) error {
	Logger().Error("host array conversion failed",
		zap.String("adapter", b.adapter.Name()),
		zap.Error(err))
	return err
}
