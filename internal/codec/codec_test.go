package codec

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tensorwire/internal/parallel"
	"github.com/born-ml/tensorwire/internal/tensor"
)

func TestDefaultRegistryCoversEveryDataType(t *testing.T) {
	reg := Default()
	require.Equal(t, tensor.DataTypes(), reg.DataTypes())

	for _, dt := range tensor.DataTypes() {
		c, err := reg.CodecFor(dt)
		require.NoError(t, err, dt.String())
		assert.Equal(t, dt, c.DataType())
		assert.Equal(t, dt.Size(), c.Width(), dt.String())
	}
}

func TestRegistryRejectsUnknownTags(t *testing.T) {
	for _, dt := range []tensor.DataType{tensor.Invalid, 11, 19, 99, -1} {
		_, err := Default().CodecFor(dt)
		require.ErrorIs(t, err, ErrUnsupportedDtype)

		var dtErr *DTypeError
		require.ErrorAs(t, err, &dtErr)
		assert.Equal(t, dt, dtErr.DType)
	}
}

func TestRestrictedRegistry(t *testing.T) {
	reg := NewRegistry(newFloat32Codec(parallel.Sequential()))
	require.Equal(t, []tensor.DataType{tensor.Float32}, reg.DataTypes())

	_, err := reg.CodecFor(tensor.Float64)
	require.ErrorIs(t, err, ErrUnsupportedDtype)
}

func TestRegistryDuplicatePanics(t *testing.T) {
	require.Panics(t, func() {
		NewRegistry(boolCodec{}, boolCodec{})
	})
}

func TestFixedCodecLittleEndian(t *testing.T) {
	tests := []struct {
		name  string
		dt    tensor.DataType
		elems any
		want  []byte
	}{
		{"int16", tensor.Int16, []int16{-2}, []byte{0xfe, 0xff}},
		{"uint32", tensor.Uint32, []uint32{0x01020304}, []byte{0x04, 0x03, 0x02, 0x01}},
		{"int64", tensor.Int64, []int64{1}, []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{"float32 one", tensor.Float32, []float32{1}, []byte{0x00, 0x00, 0x80, 0x3f}},
		{"float32 negative zero", tensor.Float32, []float32{float32(math.Copysign(0, -1))}, []byte{0, 0, 0, 0x80}},
		{"complex64", tensor.Complex64, []complex64{complex(1, -2)},
			[]byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0xc0}},
		{"int8", tensor.Int8, []int8{-1, 127}, []byte{0xff, 0x7f}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Default().CodecFor(tt.dt)
			require.NoError(t, err)

			got, err := c.Append(nil, tt.elems)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)

			n, _, _ := tensor.ElementsLen(tt.elems)
			back, consumed, err := c.Decode(got, n)
			require.NoError(t, err)
			require.Equal(t, len(got), consumed)
			require.Equal(t, tt.elems, back)
		})
	}
}

// The byte-swapping path is taken on big-endian hosts only; exercise the
// element functions directly so they are covered everywhere.
func TestFixedCodecElementFunctions(t *testing.T) {
	c := newFixedCodec(
		func(b []byte, v float64) { b[0] = byte(math.Float64bits(v) >> 56) },
		func(b []byte) float64 { return math.Float64frombits(uint64(b[0]) << 56) },
		parallel.Sequential())
	buf := make([]byte, 8)
	c.put(buf, -2)
	require.Equal(t, float64(-2), c.get(buf))

	cc := newComplex128Codec(parallel.Sequential()).(*fixedCodec[complex128])
	buf = make([]byte, 16)
	cc.put(buf, complex(math.Inf(1), math.NaN()))
	v := cc.get(buf)
	require.True(t, math.IsInf(real(v), 1))
	require.True(t, math.IsNaN(imag(v)))
}

func TestFixedCodecRejectsWrongElementType(t *testing.T) {
	c, err := Default().CodecFor(tensor.Float32)
	require.NoError(t, err)

	_, err = c.Append(nil, []float64{1})
	require.ErrorIs(t, err, ErrEncodingFailure)
}

func TestBoolCodec(t *testing.T) {
	c := boolCodec{}

	got, err := c.Append(nil, []bool{true, false, true})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0, 1}, got)

	back, n, err := c.Decode(got, 3)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, []bool{true, false, true}, back)

	_, _, err = c.Decode([]byte{1, 2}, 2)
	require.ErrorIs(t, err, ErrInvalidElement)
	var elemErr *ElementError
	require.ErrorAs(t, err, &elemErr)
	require.Equal(t, 1, elemErr.Index)
	require.Equal(t, byte(2), elemErr.Value)
}

func TestStringCodec(t *testing.T) {
	c := stringCodec{}
	elems := []string{"", "a", "héllo", "\x00\xff", string(make([]byte, 300))}

	got, err := c.Append(nil, elems)
	require.NoError(t, err)
	// "" -> [0], "a" -> [1 'a']
	require.Equal(t, []byte{0, 1, 'a'}, got[:3])

	back, n, err := c.Decode(got, len(elems))
	require.NoError(t, err)
	require.Equal(t, len(got), n)
	require.Equal(t, elems, back)

	_, _, err = c.Decode(got[:len(got)-1], len(elems))
	require.ErrorIs(t, err, ErrTruncatedOrOversizedPayload)
}

func TestBufferCodecRoundTrip(t *testing.T) {
	bc := NewBufferCodec(nil)

	for _, dt := range tensor.DataTypes() {
		t.Run(dt.String(), func(t *testing.T) {
			raw, err := tensor.NewRaw(tensor.Shape{2, 3}, dt)
			require.NoError(t, err)

			payload, err := bc.Encode(raw)
			require.NoError(t, err)
			if dt.Size() > 0 {
				require.Len(t, payload, 6*dt.Size())
			}

			elems, err := bc.Decode(dt, 6, payload)
			require.NoError(t, err)
			back, err := tensor.FromElements(dt, tensor.Shape{2, 3}, elems)
			require.NoError(t, err)
			require.True(t, raw.BitEqual(back))
		})
	}
}

func TestBufferCodecSizeChecks(t *testing.T) {
	bc := NewBufferCodec(nil)

	raw, err := tensor.FromSlice([]float32{1, 2, 3}, tensor.Shape{3})
	require.NoError(t, err)
	payload, err := bc.Encode(raw)
	require.NoError(t, err)

	t.Run("truncated", func(t *testing.T) {
		_, err := bc.Decode(tensor.Float32, 3, payload[:len(payload)-1])
		require.ErrorIs(t, err, ErrTruncatedOrOversizedPayload)

		var sizeErr *PayloadSizeError
		require.ErrorAs(t, err, &sizeErr)
		assert.Equal(t, 12, sizeErr.Expected)
		assert.Equal(t, 11, sizeErr.Actual)
		assert.Equal(t, tensor.Float32, sizeErr.DType)
	})

	t.Run("oversized", func(t *testing.T) {
		_, err := bc.Decode(tensor.Float32, 3, append(payload, 0))
		require.ErrorIs(t, err, ErrTruncatedOrOversizedPayload)
	})

	t.Run("string oversized", func(t *testing.T) {
		s, err := tensor.FromSlice([]string{"ab"}, tensor.Shape{1})
		require.NoError(t, err)
		p, err := bc.Encode(s)
		require.NoError(t, err)

		_, err = bc.Decode(tensor.String, 1, append(p, 'x'))
		var sizeErr *PayloadSizeError
		require.ErrorAs(t, err, &sizeErr)
		assert.Equal(t, 3, sizeErr.Expected)
		assert.Equal(t, 4, sizeErr.Actual)
	})

	t.Run("overflowing count", func(t *testing.T) {
		_, err := bc.Decode(tensor.Float64, math.MaxInt/2, payload)
		require.ErrorIs(t, err, ErrTruncatedOrOversizedPayload)
	})

	t.Run("unknown dtype", func(t *testing.T) {
		_, err := bc.Decode(tensor.DataType(42), 0, nil)
		require.ErrorIs(t, err, ErrUnsupportedDtype)
	})
}

func TestBufferCodecEncodeRejectsUnregistered(t *testing.T) {
	bc := NewBufferCodec(NewRegistry(boolCodec{}))

	raw, err := tensor.FromSlice([]float32{1}, tensor.Shape{1})
	require.NoError(t, err)

	_, err = bc.Encode(raw)
	require.ErrorIs(t, err, ErrUnsupportedDtype)
	require.False(t, errors.Is(err, ErrEncodingFailure))
}

func TestParallelFixedCodecMatchesSequential(t *testing.T) {
	cfg := parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}
	par := newFloat64Codec(cfg)
	seq := newFloat64Codec(parallel.Sequential())

	elems := make([]float64, 1000)
	for i := range elems {
		elems[i] = float64(i) * -1.5
	}

	a, err := par.Append(nil, elems)
	require.NoError(t, err)
	b, err := seq.Append(nil, elems)
	require.NoError(t, err)
	require.Equal(t, b, a)

	back, _, err := par.Decode(a, len(elems))
	require.NoError(t, err)
	require.Equal(t, elems, back)
}
