package bridge

import (
	"fmt"
	"slices"

	"github.com/born-ml/tensorwire/internal/parallel"
	"github.com/born-ml/tensorwire/internal/tensor"
)

const maxInt = int(^uint(0) >> 1)

// rowMajor copies the elements addressed by a strided view of buf into a new
// slice in row-major index order. A nil strides slice means the view is
// already row-major. Views in any other layout are gathered element by
// element, never reinterpreted.
func rowMajor[T any](buf []T, shape, strides []int, offset int, cfg parallel.Config) ([]T, error) {
	n, err := tensor.Shape(shape).CheckedNumElements()
	if err != nil {
		return nil, err
	}
	if strides != nil && len(strides) != len(shape) {
		return nil, fmt.Errorf("%d strides for rank %d", len(strides), len(shape))
	}
	if offset < 0 {
		return nil, fmt.Errorf("negative offset %d", offset)
	}
	if n == 0 {
		return []T{}, nil
	}

	if strides == nil || isRowMajor(shape, strides) {
		if n > len(buf) || offset > len(buf)-n {
			return nil, fmt.Errorf("%d elements at offset %d exceed buffer of %d", n, offset, len(buf))
		}
		return slices.Clone(buf[offset : offset+n]), nil
	}

	lo, hi, ok := extent(shape, strides, offset)
	if !ok || lo < 0 || hi >= len(buf) {
		return nil, fmt.Errorf("strides %v at offset %d address outside buffer of %d", strides, offset, len(buf))
	}

	out := make([]T, n)
	gather(out, buf, shape, strides, offset, cfg)
	return out, nil
}

// isRowMajor reports whether strides describe a contiguous row-major layout
// of a non-empty shape. Strides of unit dimensions are ignored.
func isRowMajor(shape, strides []int) bool {
	want := 1
	for i := len(shape) - 1; i >= 0; i-- {
		if shape[i] != 1 && strides[i] != want {
			return false
		}
		want *= shape[i]
	}
	return true
}

// extent returns the lowest and highest buffer index reached by a non-empty
// strided view. ok is false if the computation overflows.
func extent(shape, strides []int, offset int) (lo, hi int, ok bool) {
	lo, hi = offset, offset
	for i, d := range shape {
		s := strides[i]
		if d == 1 || s == 0 {
			continue
		}
		steps := d - 1
		if s > maxInt/steps || s < -(maxInt/steps) {
			return 0, 0, false
		}
		span := s * steps
		if span > 0 {
			if hi > maxInt-span {
				return 0, 0, false
			}
			hi += span
		} else {
			lo += span
			if lo < 0 {
				return lo, hi, true
			}
		}
	}
	return lo, hi, true
}

// gather fills dst in row-major order from a strided view of src. Chunks of
// dst are filled concurrently when cfg allows.
func gather[T any](dst, src []T, shape, strides []int, offset int, cfg parallel.Config) {
	parallel.ForRange(len(dst), func(start, end int) {
		idx := make([]int, len(shape))
		pos := offset
		rem := start
		for d := len(shape) - 1; d >= 0; d-- {
			idx[d] = rem % shape[d]
			rem /= shape[d]
			pos += idx[d] * strides[d]
		}

		for i := start; i < end; i++ {
			dst[i] = src[pos]
			for d := len(shape) - 1; d >= 0; d-- {
				idx[d]++
				pos += strides[d]
				if idx[d] < shape[d] {
					break
				}
				pos -= idx[d] * strides[d]
				idx[d] = 0
			}
		}
	}, cfg)
}
