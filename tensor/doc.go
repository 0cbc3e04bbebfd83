// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor exposes the tensor representation used by tensorwire.
//
// Most callers work with host arrays and the tensorwire package; this
// package is for code that needs the intermediate form directly, such as
// custom bridge adapters.
//
// # Supported Data Types
//
// Tags follow the TensorFlow DataType numbering:
//
//	Float32=1  Float64=2  Int32=3  Uint8=4  Int16=5  Int8=6  String=7
//	Complex64=8  Int64=9  Bool=10  Uint16=17  Complex128=18  Uint32=22
//	Uint64=23
package tensor
