package statestore

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/born-ml/tensorwire/internal/wire"
)

// Entry is one named wire value of a program state.
type Entry struct {
	Name  string
	Value *wire.Value
}

// Writer writes state files.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a state file writer for path.
func NewWriter(path string) (*Writer, error) {
	//nolint:gosec // G304: path is built by the manager from its root directory
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &Writer{file: file}, nil
}

// WriteEntries writes entries, sorted by name, with header. The entry list
// of header is replaced.
func (w *Writer) WriteEntries(entries []Entry, header Header) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var data []byte
	header.FormatVersion = FormatVersion
	header.Entries = make([]EntryMeta, 0, len(sorted))
	for _, e := range sorted {
		if e.Value == nil {
			return fmt.Errorf("entry %q: nil value", e.Name)
		}
		shape, err := e.Value.DecodedShape()
		if err != nil {
			return fmt.Errorf("entry %q: %w", e.Name, err)
		}

		start := len(data)
		data = e.Value.AppendMarshal(data)
		header.Entries = append(header.Entries, EntryMeta{
			Name:        e.Name,
			DType:       e.Value.DType.String(),
			Shape:       shape,
			Offset:      int64(start),
			Size:        int64(len(data) - start),
			Fingerprint: wire.FingerprintBytes(data[start:]),
		})
	}

	//nolint:gosec // G115: data length is non-negative
	if err := ValidateHeader(&header, int64(len(data))); err != nil {
		return err
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}

	var fixed [FixedHeaderSize]byte
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(data)))
	checksum := ComputeChecksum(data)
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	bw := bufio.NewWriter(w.file)
	if _, err := bw.Write(fixed[:]); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := bw.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	headerEnd := int64(FixedHeaderSize + len(headerJSON))
	if padding := alignUp(headerEnd) - headerEnd; padding > 0 {
		if _, err := bw.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := bw.Write(data); err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}
	return w.file.Sync()
}

// Close closes the writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// WriteFile writes entries with header to a new file at path.
func WriteFile(path string, entries []Entry, header Header) error {
	w, err := NewWriter(path)
	if err != nil {
		return err
	}
	if err := w.WriteEntries(entries, header); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
