// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensorwire serializes tensors to a portable, self-describing wire
// value and back.
//
// # Overview
//
// A wire value carries three things: a data type tag, an encoded shape and
// the element payload. Values are produced from host arrays (see the ndarray
// package) and turned back into freshly allocated host arrays on the
// receiving side:
//
//	a, _ := ndarray.FromSlice([]float32{1, 2, 3, 4, 5, 6}, 2, 3)
//
//	v, err := tensorwire.SerializeTensorValue(a)
//	if err != nil {
//	    return err
//	}
//	b := v.Marshal() // transport bytes
//
//	v, err = tensorwire.UnmarshalValue(b)
//	...
//	back, err := tensorwire.DeserializeTensorValue(v)
//
// # Wire Format
//
// The format is fixed and byte-stable:
//   - Fixed-width elements are little-endian; complex values store the real
//     part first.
//   - Booleans take one byte each, 0x00 or 0x01. Any other byte is rejected.
//   - Strings are a varint byte length followed by the bytes.
//   - The shape is an int32 rank followed by one int64 per dimension.
//   - The transport envelope is a protobuf message with dtype (field 1),
//     shape (field 2) and content (field 3).
//
// Data type tags follow the TensorFlow DataType numbering.
//
// # Errors
//
// Every failure matches one of the exported sentinel errors with errors.Is.
// Conversion is all-or-nothing: on error no value or array is returned.
//
// # Host Arrays
//
// Host arrays are reached through an Adapter chosen by name with
// WithAdapter. The "ndarray" adapter (default) handles *ndarray.Array values
// of any layout, normalizing strided views to row-major order. The
// "rawview" adapter handles *RawView byte buffers tagged with
// safetensors-style dtype names.
package tensorwire
