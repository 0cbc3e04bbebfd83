package bridge

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/born-ml/tensorwire/internal/codec"
	"github.com/born-ml/tensorwire/internal/ndarray"
	"github.com/born-ml/tensorwire/internal/parallel"
	"github.com/born-ml/tensorwire/internal/tensor"
)

func newNDBridge(maxElements int) *Bridge {
	return New(NewNDArrayAdapter(parallel.Sequential()), Config{MaxElements: maxElements})
}

func TestFromHostContiguous(t *testing.T) {
	a, err := ndarray.FromSlice([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)

	raw, err := newNDBridge(0).FromHost(a)
	require.NoError(t, err)
	assert.Equal(t, tensor.Float64, raw.DType())
	assert.Equal(t, tensor.Shape{2, 3}, raw.Shape())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, raw.AsFloat64())

	// The tensor owns its buffer.
	a.Set(100, 0, 0)
	assert.Equal(t, 1.0, raw.AsFloat64()[0])
}

func TestFromHostNormalizesStridedViews(t *testing.T) {
	a, err := ndarray.FromSlice([]int32{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)

	b := newNDBridge(0)

	tests := []struct {
		name  string
		view  *ndarray.Array[int32]
		shape tensor.Shape
		want  []int32
	}{
		{"transpose", a.Transpose(), tensor.Shape{3, 2}, []int32{1, 4, 2, 5, 3, 6}},
		{"flip", a.Flip(1), tensor.Shape{2, 3}, []int32{3, 2, 1, 6, 5, 4}},
		{"slice", a.Slice(1, 1, 3), tensor.Shape{2, 2}, []int32{2, 3, 5, 6}},
		{"transposed slice", a.Slice(0, 1, 2).Transpose(), tensor.Shape{3, 1}, []int32{4, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := b.FromHost(tt.view)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, raw.Shape())
			assert.Equal(t, tt.want, raw.AsInt32())
		})
	}
}

func TestFromHostBroadcastView(t *testing.T) {
	v, err := ndarray.View([]uint8{7, 8}, []int{3, 2}, []int{0, 1}, 0)
	require.NoError(t, err)

	raw, err := newNDBridge(0).FromHost(v)
	require.NoError(t, err)
	assert.Equal(t, []uint8{7, 8, 7, 8, 7, 8}, raw.AsUint8())
}

func TestParallelGatherMatchesSequential(t *testing.T) {
	data := make([]float32, 64*48)
	for i := range data {
		data[i] = float32(i)
	}
	a, err := ndarray.FromSlice(data, 64, 48)
	require.NoError(t, err)
	view := a.Transpose().Flip(0)

	seq, err := newNDBridge(0).FromHost(view)
	require.NoError(t, err)

	par := New(NewNDArrayAdapter(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 100}), Config{})
	got, err := par.FromHost(view)
	require.NoError(t, err)

	assert.Equal(t, seq.AsFloat32(), got.AsFloat32())
	assert.Equal(t, view.Contiguous().Data(), got.AsFloat32())
}

func TestFromHostScalarAndEmpty(t *testing.T) {
	b := newNDBridge(0)

	s, err := ndarray.FromSlice([]string{"only"})
	require.NoError(t, err)
	raw, err := b.FromHost(s)
	require.NoError(t, err)
	assert.Empty(t, raw.Shape())
	assert.Equal(t, []string{"only"}, raw.AsString())

	e, err := ndarray.Zeros[bool](4, 0)
	require.NoError(t, err)
	raw, err = b.FromHost(e)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{4, 0}, raw.Shape())
	assert.Empty(t, raw.AsBool())
}

func TestFromHostUnsupportedElementType(t *testing.T) {
	b := newNDBridge(0)

	for _, a := range []Array{
		mustArray(ndarray.FromSlice([]int{1, 2}, 2)),
		mustArray(ndarray.FromSlice([]uint{1, 2}, 2)),
	} {
		raw, err := b.FromHost(a)
		require.ErrorIs(t, err, ErrUnsupportedHostType)
		require.Nil(t, raw)

		var hostErr *HostTypeError
		require.ErrorAs(t, err, &hostErr)
		assert.Equal(t, NDArrayName, hostErr.Adapter)
		assert.Equal(t, a.ElementType(), hostErr.ElementType)
	}

	_, err := b.FromHost(nil)
	require.ErrorIs(t, err, ErrUnsupportedHostType)
}

func TestFromHostRestrictedRegistry(t *testing.T) {
	b := New(NewNDArrayAdapter(parallel.Sequential()), Config{
		Registry: codec.NewRegistry(codec.Builtin(parallel.Sequential())[:1]...),
	})

	_, err := b.FromHost(mustArray(ndarray.FromSlice([]float64{1}, 1)))
	require.ErrorIs(t, err, ErrUnsupportedHostType)

	_, err = b.FromHost(mustArray(ndarray.FromSlice([]float32{1}, 1)))
	require.NoError(t, err)
}

// fakeArray lets tests describe layouts the ndarray package refuses to build.
type fakeArray struct {
	elementType string
	shape       []int
	strides     []int
	offset      int
	buffer      any
}

func (f *fakeArray) ElementType() string { return f.elementType }
func (f *fakeArray) Shape() []int        { return f.shape }
func (f *fakeArray) Strides() []int      { return f.strides }
func (f *fakeArray) Offset() int         { return f.offset }
func (f *fakeArray) Buffer() any         { return f.buffer }

func TestFromHostInvalidLayouts(t *testing.T) {
	buf := []float32{1, 2, 3, 4}

	tests := []struct {
		name string
		a    *fakeArray
	}{
		{"negative dimension", &fakeArray{"float32", []int{-1}, nil, 0, buf}},
		{"buffer too small", &fakeArray{"float32", []int{5}, nil, 0, buf}},
		{"offset past end", &fakeArray{"float32", []int{2}, nil, 3, buf}},
		{"negative offset", &fakeArray{"float32", []int{2}, nil, -1, buf}},
		{"stride rank mismatch", &fakeArray{"float32", []int{2, 2}, []int{1}, 0, buf}},
		{"stride out of bounds", &fakeArray{"float32", []int{2, 2}, []int{1, 3}, 0, buf}},
		{"negative stride before start", &fakeArray{"float32", []int{2}, []int{-1}, 0, buf}},
		{"overflowing stride", &fakeArray{"float32", []int{3}, []int{math.MaxInt / 2}, 0, buf}},
		{"buffer type mismatch", &fakeArray{"float32", []int{2}, nil, 0, []float64{1, 2}}},
		{"unknown buffer", &fakeArray{"float32", []int{2}, nil, 0, []int{1, 2}}},
	}

	b := newNDBridge(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := b.FromHost(tt.a)
			require.ErrorIs(t, err, ErrUnsupportedHostType)
			require.Nil(t, raw)
		})
	}
}

func TestToHost(t *testing.T) {
	raw, err := tensor.FromSlice([]complex64{1, complex(0, -1)}, tensor.Shape{1, 2})
	require.NoError(t, err)

	host, err := newNDBridge(0).ToHost(raw)
	require.NoError(t, err)

	arr, ok := host.(*ndarray.Array[complex64])
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, arr.Shape())
	assert.Equal(t, complex64(complex(0, -1)), arr.At(0, 1))

	// The host array owns a copy.
	arr.Set(5, 0, 0)
	assert.Equal(t, complex64(1), raw.Elements().([]complex64)[0])
}

func TestToHostEveryDataType(t *testing.T) {
	b := newNDBridge(0)
	for _, dt := range tensor.DataTypes() {
		raw, err := tensor.NewRaw(tensor.Shape{2, 2}, dt)
		require.NoError(t, err)

		host, err := b.ToHost(raw)
		require.NoError(t, err, dt.String())
		assert.Equal(t, dt.String(), host.ElementType())

		back, err := b.FromHost(host)
		require.NoError(t, err)
		assert.True(t, raw.BitEqual(back), dt.String())
	}
}

func TestToHostElementBudget(t *testing.T) {
	raw, err := tensor.NewRaw(tensor.Shape{10, 10}, tensor.Float32)
	require.NoError(t, err)

	host, err := newNDBridge(99).ToHost(raw)
	require.ErrorIs(t, err, ErrHostAllocation)
	require.Nil(t, host)

	var allocErr *AllocationError
	require.ErrorAs(t, err, &allocErr)
	assert.Equal(t, tensor.Float32, allocErr.DType)
	assert.Equal(t, tensor.Shape{10, 10}, allocErr.Shape)

	_, err = newNDBridge(100).ToHost(raw)
	require.NoError(t, err)
}

func TestToHostNil(t *testing.T) {
	_, err := newNDBridge(0).ToHost(nil)
	require.ErrorIs(t, err, ErrHostAllocation)
}

var errNoMemory = errors.New("no memory")

// failingAdapter wraps the ndarray adapter and breaks allocation.
type failingAdapter struct {
	Adapter
	panics bool
}

func (f *failingAdapter) NewArray(tensor.DataType, tensor.Shape, any) (Array, error) {
	if f.panics {
		panic("runtime: out of memory")
	}
	return nil, errNoMemory
}

func TestToHostAdapterFailures(t *testing.T) {
	raw, err := tensor.FromSlice([]int64{1, 2, 3}, tensor.Shape{3})
	require.NoError(t, err)

	t.Run("error", func(t *testing.T) {
		b := New(&failingAdapter{Adapter: NewNDArrayAdapter(parallel.Sequential())}, Config{})
		host, err := b.ToHost(raw)
		require.ErrorIs(t, err, ErrHostAllocation)
		require.ErrorIs(t, err, errNoMemory)
		require.Nil(t, host)
	})

	t.Run("panic", func(t *testing.T) {
		b := New(&failingAdapter{Adapter: NewNDArrayAdapter(parallel.Sequential()), panics: true}, Config{})
		host, err := b.ToHost(raw)
		require.ErrorIs(t, err, ErrHostAllocation)
		require.Contains(t, err.Error(), "out of memory")
		require.Nil(t, host)
	})
}

func TestFailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	_, err := newNDBridge(0).FromHost(mustArray(ndarray.FromSlice([]int{1}, 1)))
	require.Error(t, err)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, NDArrayName, entries[0].ContextMap()["adapter"])
}

func TestAdapterByName(t *testing.T) {
	for _, name := range AdapterNames() {
		a, err := AdapterByName(name, AdapterConfig{})
		require.NoError(t, err)
		assert.Equal(t, name, a.Name())
	}

	_, err := AdapterByName("numpy", AdapterConfig{})
	require.Error(t, err)
}

func mustArray[T ndarray.Scalar](a *ndarray.Array[T], err error) Array {
	if err != nil {
		panic(err)
	}
	return a
}
