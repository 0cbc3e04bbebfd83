package statestore

import (
	"fmt"
	"sort"
	"strings"
)

// Validation limits.
const (
	MaxHeaderSize   = 100 * 1024 * 1024 // 100MB
	MaxEntryCount   = 100_000
	MaxEntryNameLen = 4096
)

// ValidateEntryName rejects names that are empty, too long, or could be
// mistaken for paths outside the state ("..", a leading "/", "\" or NUL).
// Nested names use "/" as separator.
func ValidateEntryName(name string) error {
	invalid := func(detail string) error {
		return &ValidationError{Err: ErrInvalidEntryName, Entry: name, Detail: detail}
	}

	switch {
	case name == "":
		return invalid("empty name")
	case len(name) > MaxEntryNameLen:
		return invalid(fmt.Sprintf("length %d > max %d", len(name), MaxEntryNameLen))
	case strings.Contains(name, ".."):
		return invalid("contains '..'")
	case strings.HasPrefix(name, "/"):
		return invalid("leading '/'")
	case strings.Contains(name, "\\"):
		return invalid("contains '\\'")
	case strings.Contains(name, "\x00"):
		return invalid("contains null byte")
	}
	return nil
}

// ValidateEntryOffsets checks that every entry lies inside the data section
// and that no two entries overlap.
func ValidateEntryOffsets(entries []EntryMeta, dataSize int64) error {
	if len(entries) > MaxEntryCount {
		return &ValidationError{
			Err:    ErrTooManyEntries,
			Detail: fmt.Sprintf("got %d, max %d", len(entries), MaxEntryCount),
		}
	}

	sorted := make([]EntryMeta, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})

	for i, e := range sorted {
		if e.Offset < 0 || e.Size < 0 {
			return &ValidationError{
				Err:    ErrNegativeOffset,
				Entry:  e.Name,
				Detail: fmt.Sprintf("offset=%d, size=%d", e.Offset, e.Size),
			}
		}
		if e.Offset > dataSize || e.Size > dataSize-e.Offset {
			return &ValidationError{
				Err:    ErrOutOfBounds,
				Entry:  e.Name,
				Detail: fmt.Sprintf("offset %d + size %d > data_size %d", e.Offset, e.Size, dataSize),
			}
		}
		if i < len(sorted)-1 {
			next := sorted[i+1]
			if e.Offset+e.Size > next.Offset {
				return &ValidationError{
					Err:    ErrOffsetOverlap,
					Entry:  e.Name,
					Entry2: next.Name,
					Detail: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
						e.Offset, e.Offset+e.Size, next.Offset, next.Offset+next.Size),
				}
			}
		}
	}
	return nil
}

// ValidateHeader validates entry names, duplicates and offsets.
func ValidateHeader(h *Header, dataSize int64) error {
	if len(h.Entries) > MaxEntryCount {
		return &ValidationError{
			Err:    ErrTooManyEntries,
			Detail: fmt.Sprintf("got %d, max %d", len(h.Entries), MaxEntryCount),
		}
	}

	seen := make(map[string]struct{}, len(h.Entries))
	for _, e := range h.Entries {
		if err := ValidateEntryName(e.Name); err != nil {
			return err
		}
		if _, dup := seen[e.Name]; dup {
			return &ValidationError{Err: ErrInvalidEntryName, Entry: e.Name, Detail: "duplicate name"}
		}
		seen[e.Name] = struct{}{}
	}

	return ValidateEntryOffsets(h.Entries, dataSize)
}
