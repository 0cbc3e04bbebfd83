package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tensorwire/internal/codec"
	"github.com/born-ml/tensorwire/internal/tensor"
)

// sampleTensor builds a tensor of the given type with non-trivial values.
func sampleTensor(t *testing.T, dt tensor.DataType, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()

	raw, err := tensor.NewRaw(shape, dt)
	require.NoError(t, err)

	switch e := raw.Elements().(type) {
	case []float32:
		for i := range e {
			e[i] = float32(i) - 1.25
		}
	case []float64:
		for i := range e {
			e[i] = float64(i) * math.Pi
		}
	case []int8:
		for i := range e {
			e[i] = int8(-i)
		}
	case []int16:
		for i := range e {
			e[i] = int16(-300 * i)
		}
	case []int32:
		for i := range e {
			e[i] = int32(-70000 * i)
		}
	case []int64:
		for i := range e {
			e[i] = int64(i) << 40
		}
	case []uint8:
		for i := range e {
			e[i] = uint8(250 + i)
		}
	case []uint16:
		for i := range e {
			e[i] = uint16(65000 + i)
		}
	case []uint32:
		for i := range e {
			e[i] = uint32(i) << 28
		}
	case []uint64:
		for i := range e {
			e[i] = math.MaxUint64 - uint64(i)
		}
	case []bool:
		for i := range e {
			e[i] = i%2 == 0
		}
	case []complex64:
		for i := range e {
			e[i] = complex(float32(i), -float32(i))
		}
	case []complex128:
		for i := range e {
			e[i] = complex(float64(i)/3, math.Inf(1))
		}
	case []string:
		for i := range e {
			e[i] = string(rune('a'+i)) + "\x00é"
		}
	}
	return raw
}

func TestRoundTripAllTypesAndShapes(t *testing.T) {
	enc := NewEncoder(nil)
	dec := NewDecoder(nil)

	shapes := []tensor.Shape{
		{},
		{0},
		{2, 0, 3},
		{2, 3},
		{1, 1, 1, 4},
	}

	for _, dt := range tensor.DataTypes() {
		for _, shape := range shapes {
			t.Run(dt.String(), func(t *testing.T) {
				in := sampleTensor(t, dt, shape)

				v, err := enc.Encode(in)
				require.NoError(t, err)
				require.Equal(t, dt, v.DType)

				out, err := dec.Decode(v)
				require.NoError(t, err)
				require.True(t, in.BitEqual(out), "shape %v", shape)

				// Through the transport encoding as well.
				out, err = dec.DecodeBytes(v.Marshal())
				require.NoError(t, err)
				require.True(t, in.BitEqual(out), "shape %v", shape)
			})
		}
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	enc := NewEncoder(nil)

	for _, dt := range tensor.DataTypes() {
		in := sampleTensor(t, dt, tensor.Shape{3, 2})

		a, err := enc.EncodeBytes(in)
		require.NoError(t, err)
		b, err := enc.EncodeBytes(in.Clone())
		require.NoError(t, err)

		require.Equal(t, a, b, dt.String())
		require.Equal(t, FingerprintBytes(a), FingerprintBytes(b))
	}
}

func TestFloat32SpecialValues(t *testing.T) {
	nan := math.Float32frombits(0x7fc0beef)
	negZero := float32(math.Copysign(0, -1))
	inf := float32(math.Inf(1))

	in, err := tensor.FromSlice(
		[]float32{1.0, negZero, nan, inf, -inf, 3.5},
		tensor.Shape{2, 3})
	require.NoError(t, err)

	v, err := NewEncoder(nil).Encode(in)
	require.NoError(t, err)

	require.Equal(t, tensor.Float32, v.DType)
	shape, err := v.DecodedShape()
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{2, 3}, shape)
	require.Len(t, v.Payload, 24)

	out, err := NewDecoder(nil).Decode(v)
	require.NoError(t, err)
	got := out.AsFloat32()

	require.Equal(t, uint32(0x3f800000), math.Float32bits(got[0]))
	require.Equal(t, uint32(0x80000000), math.Float32bits(got[1]))
	require.Equal(t, uint32(0x7fc0beef), math.Float32bits(got[2]))
	require.Equal(t, uint32(0x7f800000), math.Float32bits(got[3]))
	require.Equal(t, uint32(0xff800000), math.Float32bits(got[4]))
	require.Equal(t, float32(3.5), got[5])
}

func TestEmptyStringTensor(t *testing.T) {
	in, err := tensor.FromSlice([]string{}, tensor.Shape{0})
	require.NoError(t, err)

	v, err := NewEncoder(nil).Encode(in)
	require.NoError(t, err)
	require.Empty(t, v.Payload)

	shape, err := v.DecodedShape()
	require.NoError(t, err)
	require.Equal(t, tensor.Shape{0}, shape)

	out, err := NewDecoder(nil).DecodeBytes(v.Marshal())
	require.NoError(t, err)
	require.Equal(t, tensor.String, out.DType())
	require.Equal(t, tensor.Shape{0}, out.Shape())
	require.Empty(t, out.AsString())
}

func TestZeroSizeDimensionHasEmptyPayload(t *testing.T) {
	for _, dt := range tensor.DataTypes() {
		in, err := tensor.NewRaw(tensor.Shape{3, 0, 2}, dt)
		require.NoError(t, err)

		v, err := NewEncoder(nil).Encode(in)
		require.NoError(t, err)
		require.Empty(t, v.Payload, dt.String())
	}
}

func TestScalar(t *testing.T) {
	in, err := tensor.FromSlice([]complex128{complex(-1, 2)}, nil)
	require.NoError(t, err)

	v, err := NewEncoder(nil).Encode(in)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0}, v.Shape)
	require.Len(t, v.Payload, 16)

	out, err := NewDecoder(nil).Decode(v)
	require.NoError(t, err)
	require.Empty(t, out.Shape())
	require.Equal(t, []complex128{complex(-1, 2)}, tensor.Data[complex128](out))
}

func TestTruncatedPayloadIsDetected(t *testing.T) {
	dec := NewDecoder(nil)

	for _, dt := range tensor.DataTypes() {
		in := sampleTensor(t, dt, tensor.Shape{2, 2})
		v, err := NewEncoder(nil).Encode(in)
		require.NoError(t, err)

		truncated := v.Clone()
		truncated.Payload = truncated.Payload[:len(truncated.Payload)-1]

		out, err := dec.Decode(truncated)
		require.ErrorIs(t, err, codec.ErrTruncatedOrOversizedPayload, dt.String())
		require.Nil(t, out)

		oversized := v.Clone()
		oversized.Payload = append(oversized.Payload, 0)
		out, err = dec.Decode(oversized)
		require.ErrorIs(t, err, codec.ErrTruncatedOrOversizedPayload, dt.String())
		require.Nil(t, out)
	}
}

func TestTruncatedTransportBytes(t *testing.T) {
	in := sampleTensor(t, tensor.Float64, tensor.Shape{4})
	b, err := NewEncoder(nil).EncodeBytes(in)
	require.NoError(t, err)

	out, err := NewDecoder(nil).DecodeBytes(b[:len(b)-1])
	require.ErrorIs(t, err, ErrMalformedValue)
	require.Nil(t, out)
}

func TestEncodeUnsupportedDtype(t *testing.T) {
	enc := NewEncoder(codec.NewRegistry(codec.Builtin(parallelOff())[:1]...))

	in := sampleTensor(t, tensor.Int64, tensor.Shape{2})
	v, err := enc.Encode(in)
	require.ErrorIs(t, err, codec.ErrUnsupportedDtype)
	require.Nil(t, v)

	var dtErr *codec.DTypeError
	require.ErrorAs(t, err, &dtErr)
	require.Equal(t, tensor.Int64, dtErr.DType)
}

func TestEncodeNilTensor(t *testing.T) {
	v, err := NewEncoder(nil).Encode(nil)
	require.ErrorIs(t, err, codec.ErrEncodingFailure)
	require.Nil(t, v)
}

func TestDecodeUnknownDtype(t *testing.T) {
	v := &Value{DType: tensor.DataType(19), Shape: []byte{0, 0, 0, 0}, Payload: []byte{0, 0}}
	out, err := NewDecoder(nil).Decode(v)
	require.ErrorIs(t, err, codec.ErrUnsupportedDtype)
	require.Nil(t, out)
}

func TestDecodeMalformedShape(t *testing.T) {
	v := &Value{DType: tensor.Float32, Shape: []byte{1, 0, 0, 0}, Payload: nil}
	out, err := NewDecoder(nil).Decode(v)
	require.ErrorIs(t, err, codec.ErrMalformedShape)
	require.Nil(t, out)
}

func TestDecodeInvalidBool(t *testing.T) {
	in := sampleTensor(t, tensor.Bool, tensor.Shape{3})
	v, err := NewEncoder(nil).Encode(in)
	require.NoError(t, err)

	bad := v.Clone()
	bad.Payload[1] = 7
	out, err := NewDecoder(nil).Decode(bad)
	require.ErrorIs(t, err, codec.ErrInvalidElement)
	require.Nil(t, out)
}

func TestDecodeDoesNotAliasPayload(t *testing.T) {
	in := sampleTensor(t, tensor.Int32, tensor.Shape{2})
	v, err := NewEncoder(nil).Encode(in)
	require.NoError(t, err)

	out, err := NewDecoder(nil).Decode(v)
	require.NoError(t, err)

	for i := range v.Payload {
		v.Payload[i] = 0xff
	}
	assert.Equal(t, in.AsInt32(), out.AsInt32())
}
