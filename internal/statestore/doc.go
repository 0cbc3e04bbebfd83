// Package statestore saves and loads versioned program state on a file
// system.
//
// Program state is a set of named host arrays. Each version is written to
// one file, <root>/<prefix><version>, holding the serialized wire value of
// every array.
//
// # File Format
//
// All integers are little-endian.
//
//	[0x00] magic "TWST"
//	[0x04] format version (uint32)
//	[0x08] flags (uint32)
//	[0x0C] reserved (uint32)
//	[0x10] JSON header size (uint64)
//	[0x18] data section size (uint64)
//	[0x20] SHA-256 of the data section (32 bytes)
//	[0x40] JSON header, zero padded to a multiple of 64 bytes
//	       data section: marshalled wire values in entry order
//
// The JSON header lists every entry with its name, dtype, shape, byte range
// in the data section and the xxhash64 fingerprint of its bytes.
//
// Files are written to a temporary path and renamed into place, so a
// version is either fully present or absent. Readers memory-map files on
// Unix.
package statestore
