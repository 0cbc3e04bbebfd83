package codec

import (
	"fmt"
	"math"

	"github.com/born-ml/tensorwire/internal/endian"
	"github.com/born-ml/tensorwire/internal/tensor"
)

// Shape encoding layout (little-endian):
//
//	[4 bytes: rank (int32)]
//	[rank x 8 bytes: dimension (int64)]
const (
	rankSize = 4
	dimSize  = 8

	// MaxRank is the largest rank accepted on either side of the wire.
	MaxRank = 254
)

// EncodedShapeSize returns the encoded size of a shape of the given rank.
func EncodedShapeSize(rank int) int {
	return rankSize + rank*dimSize
}

// AppendShape appends the encoding of shape to dst.
func AppendShape(dst []byte, shape tensor.Shape) ([]byte, error) {
	if len(shape) > MaxRank {
		return nil, &ShapeError{Detail: fmt.Sprintf("rank %d exceeds maximum %d", len(shape), MaxRank)}
	}
	for i, dim := range shape {
		if dim < 0 {
			return nil, &ShapeError{Detail: fmt.Sprintf("dimension %d is negative: %d", i, dim)}
		}
	}

	//nolint:gosec // G115: rank bounded by MaxRank
	dst = endian.Wire.AppendUint32(dst, uint32(int32(len(shape))))
	for _, dim := range shape {
		//nolint:gosec // G115: non-negative int fits in int64
		dst = endian.Wire.AppendUint64(dst, uint64(int64(dim)))
	}
	return dst, nil
}

// EncodeShape returns the encoding of shape.
func EncodeShape(shape tensor.Shape) ([]byte, error) {
	return AppendShape(make([]byte, 0, EncodedShapeSize(len(shape))), shape)
}

// DecodeShape decodes a shape encoding. The input must be consumed exactly.
func DecodeShape(b []byte) (tensor.Shape, error) {
	if len(b) < rankSize {
		return nil, &ShapeError{Detail: fmt.Sprintf("need %d bytes for rank, got %d", rankSize, len(b))}
	}

	rank := int32(endian.Wire.Uint32(b))
	switch {
	case rank < 0:
		return nil, &ShapeError{Detail: fmt.Sprintf("negative rank %d", rank)}
	case rank > MaxRank:
		return nil, &ShapeError{Detail: fmt.Sprintf("rank %d exceeds maximum %d", rank, MaxRank)}
	}

	want := EncodedShapeSize(int(rank))
	if len(b) < want {
		return nil, &ShapeError{Detail: fmt.Sprintf("rank %d declares %d dimensions, only %d present",
			rank, rank, (len(b)-rankSize)/dimSize)}
	}
	if len(b) > want {
		return nil, &ShapeError{Detail: fmt.Sprintf("%d trailing bytes after %d dimensions", len(b)-want, rank)}
	}

	shape := make(tensor.Shape, rank)
	for i := range shape {
		dim := int64(endian.Wire.Uint64(b[rankSize+i*dimSize:]))
		if dim < 0 {
			return nil, &ShapeError{Detail: fmt.Sprintf("dimension %d is negative: %d", i, dim)}
		}
		if dim > math.MaxInt {
			return nil, &ShapeError{Detail: fmt.Sprintf("dimension %d overflows int: %d", i, dim)}
		}
		shape[i] = int(dim)
	}

	if _, err := shape.CheckedNumElements(); err != nil {
		return nil, &ShapeError{Detail: err.Error()}
	}
	return shape, nil
}
