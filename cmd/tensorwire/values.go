package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/tensorwire"
	"github.com/born-ml/tensorwire/ndarray"
	"github.com/born-ml/tensorwire/tensor"
)

// parseShape parses "2,3" into dimensions. An empty string is a scalar.
func parseShape(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	dims := make([]int, len(parts))
	for i, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || d < 0 {
			return nil, fmt.Errorf("invalid dimension %q", p)
		}
		dims[i] = d
	}
	return dims, nil
}

func splitValues(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// buildArray parses fields into a host array of the named element type.
func buildArray(dtype string, dims []int, fields []string) (tensorwire.Array, error) {
	dt, err := tensor.ParseDataType(dtype)
	if err != nil {
		return nil, err
	}

	switch dt {
	case tensor.Float32:
		return build(fields, dims, func(s string) (float32, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
			return float32(f), err
		})
	case tensor.Float64:
		return build(fields, dims, func(s string) (float64, error) {
			return strconv.ParseFloat(strings.TrimSpace(s), 64)
		})
	case tensor.Int8:
		return build(fields, dims, parseInt[int8](8))
	case tensor.Int16:
		return build(fields, dims, parseInt[int16](16))
	case tensor.Int32:
		return build(fields, dims, parseInt[int32](32))
	case tensor.Int64:
		return build(fields, dims, parseInt[int64](64))
	case tensor.Uint8:
		return build(fields, dims, parseUint[uint8](8))
	case tensor.Uint16:
		return build(fields, dims, parseUint[uint16](16))
	case tensor.Uint32:
		return build(fields, dims, parseUint[uint32](32))
	case tensor.Uint64:
		return build(fields, dims, parseUint[uint64](64))
	case tensor.Bool:
		return build(fields, dims, func(s string) (bool, error) {
			return strconv.ParseBool(strings.TrimSpace(s))
		})
	case tensor.Complex64:
		return build(fields, dims, func(s string) (complex64, error) {
			c, err := strconv.ParseComplex(strings.TrimSpace(s), 64)
			return complex64(c), err
		})
	case tensor.Complex128:
		return build(fields, dims, func(s string) (complex128, error) {
			return strconv.ParseComplex(strings.TrimSpace(s), 128)
		})
	case tensor.String:
		return build(fields, dims, func(s string) (string, error) { return s, nil })
	default:
		return nil, fmt.Errorf("unsupported dtype %s", dt)
	}
}

func build[T ndarray.Scalar](fields []string, dims []int, parse func(string) (T, error)) (tensorwire.Array, error) {
	data := make([]T, len(fields))
	for i, f := range fields {
		v, err := parse(f)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		data[i] = v
	}
	a, err := ndarray.FromSlice(data, dims...)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func parseInt[T int8 | int16 | int32 | int64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, bits)
		return T(n), err
	}
}

func parseUint[T uint8 | uint16 | uint32 | uint64](bits int) func(string) (T, error) {
	return func(s string) (T, error) {
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, bits)
		return T(n), err
	}
}

// formatElements renders the elements of a host buffer.
func formatElements(buf any) []string {
	switch b := buf.(type) {
	case []float32:
		return formatAll(b)
	case []float64:
		return formatAll(b)
	case []int8:
		return formatAll(b)
	case []int16:
		return formatAll(b)
	case []int32:
		return formatAll(b)
	case []int64:
		return formatAll(b)
	case []uint8:
		return formatAll(b)
	case []uint16:
		return formatAll(b)
	case []uint32:
		return formatAll(b)
	case []uint64:
		return formatAll(b)
	case []bool:
		return formatAll(b)
	case []complex64:
		return formatAll(b)
	case []complex128:
		return formatAll(b)
	case []string:
		out := make([]string, len(b))
		for i, s := range b {
			out[i] = strconv.Quote(s)
		}
		return out
	default:
		return nil
	}
}

func formatAll[T any](xs []T) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = fmt.Sprint(x)
	}
	return out
}
