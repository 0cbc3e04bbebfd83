// Package codec implements the element, shape and payload encodings of the
// tensor wire format.
//
//	Shape:   [int32 rank][rank x int64 dimension]      little-endian
//	Payload: element encodings back to back, row-major
//
// Element encodings:
//   - float32, float64, complex64, complex128: IEEE-754 bit patterns,
//     little-endian; complex values are the real part then the imaginary part
//   - int8 … int64, uint8 … uint64: two's complement / unsigned, little-endian
//   - bool: one byte per element, 0x00 or 0x01 (no bit packing)
//   - string: unsigned varint byte length, then the bytes
//
// These choices are the compatibility contract of the format and are fixed.
//
// A Registry maps each data type to its ElementCodec; BufferCodec wraps a
// registry and guarantees that a decoded payload is consumed exactly, which
// is the main guard against truncated or corrupted values.
package codec
