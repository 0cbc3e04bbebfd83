//go:build unix

package statestore

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mapFile memory-maps path read-only. The returned release function unmaps
// it.
func mapFile(path string) ([]byte, func([]byte) error, error) {
	//nolint:gosec // G304: path is built by the caller from its root directory
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}
	size := stat.Size()
	if size < FixedHeaderSize {
		return nil, nil, fmt.Errorf("file too small: %d bytes (minimum %d)", size, FixedHeaderSize)
	}
	if size > int64(maxInt) {
		return nil, nil, fmt.Errorf("file too large to map: %d bytes", size)
	}

	data, err := unix.Mmap(
		int(f.Fd()), //nolint:gosec // G115: file descriptor fits in int
		0,
		int(size),
		unix.PROT_READ,
		unix.MAP_SHARED,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("mmap failed: %w", err)
	}
	return data, unix.Munmap, nil
}
