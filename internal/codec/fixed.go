package codec

import (
	"math"
	"slices"
	"unsafe"

	"github.com/born-ml/tensorwire/internal/endian"
	"github.com/born-ml/tensorwire/internal/parallel"
	"github.com/born-ml/tensorwire/internal/tensor"
)

// fixedElement is the set of element types with a fixed-width encoding whose
// in-memory little-endian layout equals the wire layout.
type fixedElement interface {
	float32 | float64 |
		int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		complex64 | complex128
}

// fixedCodec encodes numeric elements as fixed-width little-endian values.
type fixedCodec[T fixedElement] struct {
	dtype tensor.DataType
	width int
	put   func(b []byte, v T)
	get   func(b []byte) T
	cfg   parallel.Config
}

func newFixedCodec[T fixedElement](put func([]byte, T), get func([]byte) T, cfg parallel.Config) *fixedCodec[T] {
	dt := tensor.DataTypeOf[T]()
	return &fixedCodec[T]{
		dtype: dt,
		width: dt.Size(),
		put:   put,
		get:   get,
		cfg:   cfg,
	}
}

func (c *fixedCodec[T]) DataType() tensor.DataType { return c.dtype }

func (c *fixedCodec[T]) Width() int { return c.width }

func (c *fixedCodec[T]) Append(dst []byte, elems any) ([]byte, error) {
	src, ok := elems.([]T)
	if !ok {
		return nil, encodingFailure("%s codec cannot encode %T", c.dtype, elems)
	}

	start := len(dst)
	dst = slices.Grow(dst, len(src)*c.width)[:start+len(src)*c.width]
	out := dst[start:]

	if endian.NativeIsWire() {
		copy(out, asBytes(src))
		return dst, nil
	}

	w := c.width
	parallel.ForRange(len(src), func(s, e int) {
		for i := s; i < e; i++ {
			c.put(out[i*w:], src[i])
		}
	}, c.cfg)
	return dst, nil
}

func (c *fixedCodec[T]) Decode(src []byte, count int) (any, int, error) {
	need, ok := byteLen(count, c.width)
	if !ok {
		return nil, 0, &PayloadSizeError{DType: c.dtype, Count: count, Expected: -1, Actual: len(src)}
	}
	if len(src) < need {
		return nil, 0, &PayloadSizeError{DType: c.dtype, Count: count, Expected: need, Actual: len(src)}
	}

	out := make([]T, count)
	in := src[:need]

	if endian.NativeIsWire() {
		copy(asBytes(out), in)
		return out, need, nil
	}

	w := c.width
	parallel.ForRange(count, func(s, e int) {
		for i := s; i < e; i++ {
			out[i] = c.get(in[i*w:])
		}
	}, c.cfg)
	return out, need, nil
}

// asBytes views a numeric slice as its backing bytes.
func asBytes[T fixedElement](s []T) []byte {
	var zero T
	//nolint:gosec // unsafe.Slice for zero-copy conversion, length derived from len(s)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(zero)))
}

// byteLen returns count*width, reporting false on a negative count or overflow.
func byteLen(count, width int) (int, bool) {
	if count < 0 || width <= 0 {
		return 0, false
	}
	if count > math.MaxInt/width {
		return 0, false
	}
	return count * width, true
}

func newFloat32Codec(cfg parallel.Config) ElementCodec {
	return newFixedCodec(
		func(b []byte, v float32) { endian.Wire.PutUint32(b, math.Float32bits(v)) },
		func(b []byte) float32 { return math.Float32frombits(endian.Wire.Uint32(b)) },
		cfg)
}

func newFloat64Codec(cfg parallel.Config) ElementCodec {
	return newFixedCodec(
		func(b []byte, v float64) { endian.Wire.PutUint64(b, math.Float64bits(v)) },
		func(b []byte) float64 { return math.Float64frombits(endian.Wire.Uint64(b)) },
		cfg)
}

func newInt8Codec(cfg parallel.Config) ElementCodec {
	return newFixedCodec(
		func(b []byte, v int8) { b[0] = byte(v) },
		func(b []byte) int8 { return int8(b[0]) },
		cfg)
}

func newInt16Codec(cfg parallel.Config) ElementCodec {
	return newFixedCodec(
		func(b []byte, v int16) { endian.Wire.PutUint16(b, uint16(v)) },
		func(b []byte) int16 { return int16(endian.Wire.Uint16(b)) },
		cfg)
}

func newInt32Codec(cfg parallel.Config) ElementCodec {
	return newFixedCodec(
		func(b []byte, v int32) { endian.Wire.PutUint32(b, uint32(v)) },
		func(b []byte) int32 { return int32(endian.Wire.Uint32(b)) },
		cfg)
}

func newInt64Codec(cfg parallel.Config) ElementCodec {
	return newFixedCodec(
		func(b []byte, v int64) { endian.Wire.PutUint64(b, uint64(v)) },
		func(b []byte) int64 { return int64(endian.Wire.Uint64(b)) },
		cfg)
}

func newUint8Codec(cfg parallel.Config) ElementCodec {
	return newFixedCodec(
		func(b []byte, v uint8) { b[0] = v },
		func(b []byte) uint8 { return b[0] },
		cfg)
}

func newUint16Codec(cfg parallel.Config) ElementCodec {
	return newFixedCodec(
		func(b []byte, v uint16) { endian.Wire.PutUint16(b, v) },
		endian.Wire.Uint16,
		cfg)
}

func newUint32Codec(cfg parallel.Config) ElementCodec {
	return newFixedCodec(
		func(b []byte, v uint32) { endian.Wire.PutUint32(b, v) },
		endian.Wire.Uint32,
		cfg)
}

func newUint64Codec(cfg parallel.Config) ElementCodec {
	return newFixedCodec(
		func(b []byte, v uint64) { endian.Wire.PutUint64(b, v) },
		endian.Wire.Uint64,
		cfg)
}

// Complex values are encoded as the real part followed by the imaginary part.
func newComplex64Codec(cfg parallel.Config) ElementCodec {
	return newFixedCodec(
		func(b []byte, v complex64) {
			endian.Wire.PutUint32(b, math.Float32bits(real(v)))
			endian.Wire.PutUint32(b[4:], math.Float32bits(imag(v)))
		},
		func(b []byte) complex64 {
			return complex(
				math.Float32frombits(endian.Wire.Uint32(b)),
				math.Float32frombits(endian.Wire.Uint32(b[4:])))
		},
		cfg)
}

func newComplex128Codec(cfg parallel.Config) ElementCodec {
	return newFixedCodec(
		func(b []byte, v complex128) {
			endian.Wire.PutUint64(b, math.Float64bits(real(v)))
			endian.Wire.PutUint64(b[8:], math.Float64bits(imag(v)))
		},
		func(b []byte) complex128 {
			return complex(
				math.Float64frombits(endian.Wire.Uint64(b)),
				math.Float64frombits(endian.Wire.Uint64(b[8:])))
		},
		cfg)
}
