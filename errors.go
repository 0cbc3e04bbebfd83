// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensorwire

import (
	"github.com/born-ml/tensorwire/internal/bridge"
	"github.com/born-ml/tensorwire/internal/codec"
	"github.com/born-ml/tensorwire/internal/wire"
)

// Errors returned by the serializer. Use errors.Is to test for them and
// errors.As with the structured types below for details.
var (
	ErrUnsupportedDtype            = codec.ErrUnsupportedDtype
	ErrUnsupportedHostType         = bridge.ErrUnsupportedHostType
	ErrMalformedShape              = codec.ErrMalformedShape
	ErrTruncatedOrOversizedPayload = codec.ErrTruncatedOrOversizedPayload
	ErrEncodingFailure             = codec.ErrEncodingFailure
	ErrHostAllocation              = bridge.ErrHostAllocation
	ErrMalformedValue              = wire.ErrMalformedValue
	ErrInvalidElement              = codec.ErrInvalidElement
)

// Structured errors.
type (
	// DTypeError carries the offending data type tag.
	DTypeError = codec.DTypeError

	// ShapeError describes a rejected shape encoding.
	ShapeError = codec.ShapeError

	// PayloadSizeError carries the expected and actual payload lengths.
	PayloadSizeError = codec.PayloadSizeError

	// ElementError locates an invalid element encoding.
	ElementError = codec.ElementError

	// HostTypeError describes a host array that cannot be converted.
	HostTypeError = bridge.HostTypeError

	// AllocationError describes a failed host array allocation.
	AllocationError = bridge.AllocationError
)
