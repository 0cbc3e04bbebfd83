package codec

import (
	"errors"
	"fmt"

	"github.com/born-ml/tensorwire/internal/tensor"
)

// Codec errors. Every failure returned by this package matches exactly one
// of these with errors.Is.
var (
	ErrUnsupportedDtype            = errors.New("unsupported dtype")
	ErrMalformedShape              = errors.New("malformed shape")
	ErrTruncatedOrOversizedPayload = errors.New("truncated or oversized payload")
	ErrEncodingFailure             = errors.New("encoding failure")
	ErrInvalidElement              = errors.New("invalid element encoding")
)

// DTypeError reports a data type tag with no registered codec.
type DTypeError struct {
	DType tensor.DataType
}

// Error implements the error interface.
func (e *DTypeError) Error() string {
	return fmt.Sprintf("%s: tag %d (%s)", ErrUnsupportedDtype, int32(e.DType), e.DType)
}

// Unwrap returns ErrUnsupportedDtype.
func (e *DTypeError) Unwrap() error {
	return ErrUnsupportedDtype
}

// ShapeError describes why a shape encoding was rejected.
type ShapeError struct {
	Detail string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedShape, e.Detail)
}

// Unwrap returns ErrMalformedShape.
func (e *ShapeError) Unwrap() error {
	return ErrMalformedShape
}

// PayloadSizeError reports a payload whose byte length differs from what the
// data type and element count predict. Expected is -1 when the prediction
// could not be completed (a variable-width payload that ran out of bytes).
type PayloadSizeError struct {
	DType    tensor.DataType
	Count    int
	Expected int
	Actual   int
}

// Error implements the error interface.
func (e *PayloadSizeError) Error() string {
	if e.Expected < 0 {
		return fmt.Sprintf("%s: %s x %d: payload of %d bytes ends inside an element",
			ErrTruncatedOrOversizedPayload, e.DType, e.Count, e.Actual)
	}
	return fmt.Sprintf("%s: %s x %d: expected %d bytes, got %d",
		ErrTruncatedOrOversizedPayload, e.DType, e.Count, e.Expected, e.Actual)
}

// Unwrap returns ErrTruncatedOrOversizedPayload.
func (e *PayloadSizeError) Unwrap() error {
	return ErrTruncatedOrOversizedPayload
}

// ElementError reports an element whose bytes are not a valid encoding.
type ElementError struct {
	DType tensor.DataType
	Index int
	Value byte
}

// Error implements the error interface.
func (e *ElementError) Error() string {
	return fmt.Sprintf("%s: %s element %d has byte 0x%02x", ErrInvalidElement, e.DType, e.Index, e.Value)
}

// Unwrap returns ErrInvalidElement.
func (e *ElementError) Unwrap() error {
	return ErrInvalidElement
}

func encodingFailure(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrEncodingFailure, fmt.Sprintf(format, args...))
}
