package statestore

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/born-ml/tensorwire/internal/wire"
)

const maxInt = int(^uint(0) >> 1)

// Reader reads a state file. On Unix the file is memory-mapped and entry
// bytes are read on demand.
type Reader struct {
	data       []byte
	release    func([]byte) error
	header     Header
	flags      uint32
	dataOffset int64
	dataSize   int64
	checksum   [ChecksumSize]byte
	closed     bool
}

// Open opens the state file at path and parses its header.
//
// Always call Close when done (use defer).
func Open(path string) (*Reader, error) {
	data, release, err := mapFile(path)
	if err != nil {
		return nil, err
	}

	r := &Reader{data: data, release: release}
	if err := r.parseHeader(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	return r, nil
}

func (r *Reader) parseHeader() error {
	size := int64(len(r.data))
	if size < FixedHeaderSize {
		return fmt.Errorf("file too small: %d bytes (minimum %d)", size, FixedHeaderSize)
	}
	if string(r.data[0:4]) != MagicBytes {
		return ErrInvalidMagic
	}
	if version := binary.LittleEndian.Uint32(r.data[4:8]); version != FormatVersion {
		return fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}
	r.flags = binary.LittleEndian.Uint32(r.data[8:12])

	headerSize := binary.LittleEndian.Uint64(r.data[16:24])
	if headerSize > MaxHeaderSize {
		return ErrHeaderTooLarge
	}
	dataSize := binary.LittleEndian.Uint64(r.data[24:32])
	if dataSize > uint64(size) {
		return fmt.Errorf("data size %d exceeds file size %d", dataSize, size)
	}
	r.dataSize = int64(dataSize) //nolint:gosec // G115: bounded by file size above
	copy(r.checksum[:], r.data[ChecksumOffset:ChecksumOffset+ChecksumSize])

	headerEnd := FixedHeaderSize + int64(headerSize) //nolint:gosec // G115: bounded by MaxHeaderSize
	if headerEnd > size {
		return fmt.Errorf("header extends beyond file: header_end=%d, file_size=%d", headerEnd, size)
	}
	if err := json.Unmarshal(r.data[FixedHeaderSize:headerEnd], &r.header); err != nil {
		return fmt.Errorf("failed to parse header JSON: %w", err)
	}

	r.dataOffset = alignUp(headerEnd)
	if r.dataOffset+r.dataSize != size {
		return fmt.Errorf("data section [%d, %d) does not end at file size %d",
			r.dataOffset, r.dataOffset+r.dataSize, size)
	}

	if err := ValidateHeader(&r.header, r.dataSize); err != nil {
		return fmt.Errorf("header validation failed: %w", err)
	}
	return nil
}

// Close releases the file.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	if r.data != nil {
		err = r.release(r.data)
		r.data = nil
	}
	return err
}

// Header returns the JSON header.
func (r *Reader) Header() Header {
	return r.header
}

// Flags returns the flags bitfield.
func (r *Reader) Flags() uint32 {
	return r.flags
}

// Checksum returns the stored SHA-256 of the data section.
func (r *Reader) Checksum() [ChecksumSize]byte {
	return r.checksum
}

// Names returns the entry names in file order.
func (r *Reader) Names() []string {
	names := make([]string, len(r.header.Entries))
	for i, e := range r.header.Entries {
		names[i] = e.Name
	}
	return names
}

// VerifyChecksum recomputes the data section checksum.
func (r *Reader) VerifyChecksum() error {
	if r.closed {
		return fmt.Errorf("reader is closed")
	}
	return ValidateChecksum(r.data[r.dataOffset:r.dataOffset+r.dataSize], r.checksum)
}

// EntryInfo returns the metadata of the named entry.
func (r *Reader) EntryInfo(name string) (*EntryMeta, error) {
	for i := range r.header.Entries {
		if r.header.Entries[i].Name == name {
			return &r.header.Entries[i], nil
		}
	}
	return nil, fmt.Errorf("entry %q not found", name)
}

// EntryBytes returns a zero-copy slice of the named entry's marshalled
// value. The slice is valid only while the reader is open and must not be
// modified.
func (r *Reader) EntryBytes(name string) ([]byte, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}
	meta, err := r.EntryInfo(name)
	if err != nil {
		return nil, err
	}
	start := r.dataOffset + meta.Offset
	return r.data[start : start+meta.Size], nil
}

// Value returns a copy of the named entry's wire value after checking its
// fingerprint.
func (r *Reader) Value(name string) (*wire.Value, error) {
	b, err := r.EntryBytes(name)
	if err != nil {
		return nil, err
	}
	meta, _ := r.EntryInfo(name)
	if got := wire.FingerprintBytes(b); got != meta.Fingerprint {
		return nil, &ValidationError{
			Err:    ErrFingerprint,
			Entry:  name,
			Detail: fmt.Sprintf("stored %016x, computed %016x", meta.Fingerprint, got),
		}
	}

	v, err := wire.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", name, err)
	}
	return v.Clone(), nil
}

// Entries returns copies of every entry's wire value in file order.
func (r *Reader) Entries() ([]Entry, error) {
	entries := make([]Entry, 0, len(r.header.Entries))
	for _, meta := range r.header.Entries {
		v, err := r.Value(meta.Name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: meta.Name, Value: v})
	}
	return entries, nil
}
