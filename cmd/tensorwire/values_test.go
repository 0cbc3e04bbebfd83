package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/tensorwire"
	"github.com/born-ml/tensorwire/ndarray"
	"github.com/born-ml/tensorwire/tensor"
)

func TestParseShape(t *testing.T) {
	dims, err := parseShape("")
	require.NoError(t, err)
	assert.Nil(t, dims)

	dims, err = parseShape("2, 0,3")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0, 3}, dims)

	for _, bad := range []string{"2,x", "-1", "2,,3"} {
		_, err := parseShape(bad)
		require.Error(t, err, bad)
	}
}

func TestBuildArraySpecialFloats(t *testing.T) {
	host, err := buildArray("float32", []int{2, 3}, splitValues("1,-0,nan,inf,-inf,3.5"))
	require.NoError(t, err)

	data := host.(*ndarray.Array[float32]).Data()
	assert.Equal(t, uint32(0x80000000), math.Float32bits(data[1]))
	assert.True(t, math.IsNaN(float64(data[2])))
	assert.True(t, math.IsInf(float64(data[3]), 1))
	assert.True(t, math.IsInf(float64(data[4]), -1))
	assert.Equal(t, float32(3.5), data[5])
}

func TestBuildArrayTypes(t *testing.T) {
	tests := []struct {
		dtype  string
		values string
		want   any
	}{
		{"int8", "-128,127", []int8{-128, 127}},
		{"uint16", "0,65535", []uint16{0, 65535}},
		{"bool", "true,false", []bool{true, false}},
		{"complex64", "1+2i,-3i", []complex64{complex(1, 2), complex(0, -3)}},
		{"string", "a,,b", []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.dtype, func(t *testing.T) {
			fields := splitValues(tt.values)
			host, err := buildArray(tt.dtype, []int{len(fields)}, fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want, host.Buffer())
		})
	}
}

func TestBuildArrayErrors(t *testing.T) {
	_, err := buildArray("float16", []int{1}, []string{"1"})
	require.Error(t, err)

	_, err = buildArray("int8", []int{1}, []string{"300"})
	require.Error(t, err)

	_, err = buildArray("int32", []int{3}, []string{"1", "2"})
	require.Error(t, err)
}

func TestFormatElements(t *testing.T) {
	assert.Equal(t, []string{"1", "-2"}, formatElements([]int64{1, -2}))
	assert.Equal(t, []string{`"a"`, `""`}, formatElements([]string{"a", ""}))
	assert.Equal(t, []string{"NaN"}, formatElements([]float64{math.NaN()}))
	assert.Nil(t, formatElements(nil))
}

func TestEncodeWritesWireValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v.twv")
	require.NoError(t, runEncode([]string{"-dtype", "int16", "-shape", "2", "-values", "1,-1", "-o", path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	v, err := tensorwire.UnmarshalValue(data)
	require.NoError(t, err)
	assert.Equal(t, tensor.Int16, v.DType)
	assert.Equal(t, []byte{1, 0, 0xff, 0xff}, v.Payload)
}

func TestPrinterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	p := &printer{w: &buf}
	p.value("v.twv", valueInfo{DType: "bool", Shape: []int{1}, PayloadBytes: 1, Fingerprint: "00", Elements: []string{"true"}})

	assert.Contains(t, buf.String(), "dtype: bool")
	assert.Contains(t, buf.String(), "elements: [true]")
}
