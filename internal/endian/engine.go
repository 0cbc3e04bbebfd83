// Package endian fixes the byte order of the tensor wire format and reports
// whether the host shares it.
//
// The wire format is little-endian for every fixed-width element type and for
// shape dimensions. Codecs use Wire for all reads and writes, and may copy
// memory directly when NativeIsWire reports true.
package endian

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// Engine combines ByteOrder and AppendByteOrder from encoding/binary into a
// single interface.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Wire is the byte order of the tensor wire format. It is part of the
// compatibility contract and must not change.
var Wire Engine = binary.LittleEndian

// NativeIsWire reports whether host memory already uses the wire byte order.
func NativeIsWire() bool {
	return !cpu.IsBigEndian
}
