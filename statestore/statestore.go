// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package statestore saves and loads versioned program state, a set of
// named host arrays, on a file system.
//
// Example:
//
//	s, _ := tensorwire.New()
//	m, err := statestore.NewManager("/tmp/run", s, statestore.WithKeepTotal(3))
//	if err != nil {
//	    return err
//	}
//	state, _ := statestore.Flatten(map[string]any{"model": map[string]any{"w": w}})
//	err = m.Save(state, 1)
package statestore

import (
	"github.com/born-ml/tensorwire/internal/bridge"
	"github.com/born-ml/tensorwire/internal/statestore"
)

// Manager saves and loads versioned program state under a root directory.
type Manager = statestore.Manager

// Codec converts host arrays to wire values and back. *tensorwire.Serializer
// implements it.
type Codec = statestore.Codec

// Option configures a Manager.
type Option = statestore.Option

// Config controls file naming and retention.
type Config = statestore.Config

// Header is the JSON header of a state file.
type Header = statestore.Header

// EntryMeta describes one entry of a state file.
type EntryMeta = statestore.EntryMeta

// Reader reads a single state file.
type Reader = statestore.Reader

// Errors.
var (
	ErrVersionExists     = statestore.ErrVersionExists
	ErrVersionNotFound   = statestore.ErrVersionNotFound
	ErrChecksumMismatch  = statestore.ErrChecksumMismatch
	ErrFingerprint       = statestore.ErrFingerprint
	ErrInvalidEntryName  = statestore.ErrInvalidEntryName
	ErrUnsupportedLeaf   = statestore.ErrUnsupportedLeaf
	ErrStructureMismatch = statestore.ErrStructureMismatch
)

// NewManager returns a Manager storing state under root.
func NewManager(root string, codec Codec, opts ...Option) (*Manager, error) {
	return statestore.NewManager(root, codec, opts...)
}

// DefaultConfig returns the default retention settings.
func DefaultConfig() Config {
	return statestore.DefaultConfig()
}

// WithPrefix sets the file name prefix (default "program_state_").
func WithPrefix(prefix string) Option {
	return statestore.WithPrefix(prefix)
}

// WithKeepTotal sets how many versions are kept (default 5, <= 0 keeps all).
func WithKeepTotal(n int) Option {
	return statestore.WithKeepTotal(n)
}

// WithKeepFirst sets whether the first version is always kept (default true).
func WithKeepFirst(keep bool) Option {
	return statestore.WithKeepFirst(keep)
}

// Open opens a single state file for inspection.
func Open(path string) (*Reader, error) {
	return statestore.Open(path)
}

// Flatten turns a nested structure of maps and slices with host array leaves
// into a flat map keyed by "/"-joined paths.
func Flatten(structure any) (map[string]bridge.Array, error) {
	return statestore.Flatten(structure)
}

// Pack is the inverse of Flatten: it rebuilds the nesting of template with
// the arrays of flat. Non-container values of template are placeholders.
func Pack(template any, flat map[string]bridge.Array) (any, error) {
	return statestore.Pack(template, flat)
}
