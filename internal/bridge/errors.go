package bridge

import (
	"errors"
	"fmt"

	"github.com/born-ml/tensorwire/internal/tensor"
)

// Bridge errors. Both are terminal for the call that returns them.
var (
	// ErrUnsupportedHostType is returned when a host array cannot be
	// represented as a tensor, or a tensor's data type has no host
	// element type.
	ErrUnsupportedHostType = errors.New("unsupported host type")

	// ErrHostAllocation is returned when a host array could not be
	// allocated. It is not retryable.
	ErrHostAllocation = errors.New("host allocation failure")
)

// HostTypeError describes a host array the bridge could not convert.
type HostTypeError struct {
	Adapter     string
	ElementType string
	Detail      string
}

// Error implements the error interface.
func (e *HostTypeError) Error() string {
	msg := fmt.Sprintf("%s: adapter %q, element type %q", ErrUnsupportedHostType, e.Adapter, e.ElementType)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns ErrUnsupportedHostType.
func (e *HostTypeError) Unwrap() error {
	return ErrUnsupportedHostType
}

// AllocationError describes a failed host array allocation.
type AllocationError struct {
	DType  tensor.DataType
	Shape  tensor.Shape
	Reason string
	Err    error // underlying cause, may be nil
}

// Error implements the error interface.
func (e *AllocationError) Error() string {
	msg := fmt.Sprintf("%s: %s%v: %s", ErrHostAllocation, e.DType, []int(e.Shape), e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns ErrHostAllocation and the underlying cause.
func (e *AllocationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrHostAllocation}
	}
	return []error{ErrHostAllocation, e.Err}
}
