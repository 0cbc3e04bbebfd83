package statestore

import "time"

// Format constants.
const (
	MagicBytes      = "TWST"
	FormatVersion   = 1
	HeaderAlignment = 64   // data section starts on a 64-byte boundary
	FixedHeaderSize = 64   // 0x40
	ChecksumSize    = 32   // SHA-256
	ChecksumOffset  = 0x20 // checksum position in the fixed header
)

// Flags for the fixed header.
const (
	FlagHasMetadata uint32 = 1 << 0
)

// Header is the JSON header of a state file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	CreatedAt     time.Time         `json:"created_at"`
	Version       int               `json:"version"` // program state version
	Entries       []EntryMeta       `json:"entries"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// EntryMeta describes one serialized array in the data section.
type EntryMeta struct {
	Name        string `json:"name"`
	DType       string `json:"dtype"`
	Shape       []int  `json:"shape"`
	Offset      int64  `json:"offset"` // bytes from the start of the data section
	Size        int64  `json:"size"`
	Fingerprint uint64 `json:"fingerprint"`
}

// alignUp rounds n up to the next multiple of HeaderAlignment.
func alignUp(n int64) int64 {
	return (n + HeaderAlignment - 1) / HeaderAlignment * HeaderAlignment
}
