// Package tensor provides the internal tensor representation shared by the
// codec, wire and bridge packages.
package tensor

import "fmt"

// Element is the set of Go element types a RawTensor can hold.
type Element interface {
	float32 | float64 |
		int8 | int16 | int32 | int64 |
		uint8 | uint16 | uint32 | uint64 |
		bool | complex64 | complex128 | string
}

// DataType identifies the element type of a tensor.
//
// The numeric values are wire tags and follow the TensorFlow DataType
// numbering. They must never be renumbered.
type DataType int32

// Supported data types.
const (
	Invalid    DataType = 0
	Float32    DataType = 1
	Float64    DataType = 2
	Int32      DataType = 3
	Uint8      DataType = 4
	Int16      DataType = 5
	Int8       DataType = 6
	String     DataType = 7
	Complex64  DataType = 8
	Int64      DataType = 9
	Bool       DataType = 10
	Uint16     DataType = 17
	Complex128 DataType = 18
	Uint32     DataType = 22
	Uint64     DataType = 23
)

var dataTypeNames = map[DataType]string{
	Float32:    "float32",
	Float64:    "float64",
	Int32:      "int32",
	Uint8:      "uint8",
	Int16:      "int16",
	Int8:       "int8",
	String:     "string",
	Complex64:  "complex64",
	Int64:      "int64",
	Bool:       "bool",
	Uint16:     "uint16",
	Complex128: "complex128",
	Uint32:     "uint32",
	Uint64:     "uint64",
}

// DataTypes returns every known data type in tag order.
func DataTypes() []DataType {
	return []DataType{
		Float32, Float64, Int32, Uint8, Int16, Int8, String,
		Complex64, Int64, Bool, Uint16, Complex128, Uint32, Uint64,
	}
}

// Known reports whether dt belongs to the closed enumeration.
func (dt DataType) Known() bool {
	_, ok := dataTypeNames[dt]
	return ok
}

// Size returns the byte size of one element, or 0 for variable-width types
// and unknown tags.
func (dt DataType) Size() int {
	switch dt {
	case Int8, Uint8, Bool:
		return 1
	case Int16, Uint16:
		return 2
	case Float32, Int32, Uint32:
		return 4
	case Float64, Int64, Uint64, Complex64:
		return 8
	case Complex128:
		return 16
	default:
		return 0
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	if name, ok := dataTypeNames[dt]; ok {
		return name
	}
	return fmt.Sprintf("DataType(%d)", int32(dt))
}

// ParseDataType returns the data type with the given name.
func ParseDataType(name string) (DataType, error) {
	for dt, n := range dataTypeNames {
		if n == name {
			return dt, nil
		}
	}
	return Invalid, fmt.Errorf("unknown data type %q", name)
}

// DataTypeOf returns the data type of the Go element type T.
func DataTypeOf[T Element]() DataType {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case uint8:
		return Uint8
	case uint16:
		return Uint16
	case uint32:
		return Uint32
	case uint64:
		return Uint64
	case bool:
		return Bool
	case complex64:
		return Complex64
	case complex128:
		return Complex128
	case string:
		return String
	default:
		panic("unsupported element type")
	}
}
