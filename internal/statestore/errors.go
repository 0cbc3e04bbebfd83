package statestore

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrVersionExists      = errors.New("program state already exists for version")
	ErrVersionNotFound    = errors.New("no program state found for version")
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrFingerprint        = errors.New("entry fingerprint mismatch")
	ErrOffsetOverlap      = errors.New("entry offsets overlap")
	ErrOutOfBounds        = errors.New("entry extends beyond data section")
	ErrNegativeOffset     = errors.New("negative offset or size")
	ErrTooManyEntries     = errors.New("too many entries in file")
	ErrInvalidEntryName   = errors.New("invalid entry name")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrUnsupportedLeaf    = errors.New("unsupported structure leaf")
	ErrStructureMismatch  = errors.New("structure does not match state")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Err    error  // one of the sentinel errors above
	Entry  string // primary entry name involved
	Entry2 string // secondary entry name (for overlap errors)
	Detail string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Entry2 != "" {
		return fmt.Sprintf("%s: entries %q and %q: %s", e.Err, e.Entry, e.Entry2, e.Detail)
	}
	if e.Entry != "" {
		return fmt.Sprintf("%s: entry %q: %s", e.Err, e.Entry, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Detail)
}

// Unwrap returns the sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
