// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensorwire

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/born-ml/tensorwire/internal/bridge"
	"github.com/born-ml/tensorwire/internal/codec"
	"github.com/born-ml/tensorwire/internal/options"
	"github.com/born-ml/tensorwire/internal/tensor"
	"github.com/born-ml/tensorwire/internal/wire"
)

// Value is one serialized tensor. See the package documentation for the
// format.
type Value = wire.Value

// Array is the capability set a host array exposes to the serializer.
type Array = bridge.Array

// RawView is a host array made of a little-endian byte buffer and a
// safetensors-style dtype name.
type RawView = bridge.RawView

// DataType identifies a tensor element type.
type DataType = tensor.DataType

// Serializer converts host arrays to wire values and back.
// A Serializer is immutable and safe for concurrent use.
type Serializer struct {
	cfg     Config
	bridge  *bridge.Bridge
	encoder *wire.Encoder
	decoder *wire.Decoder
	logger  *zap.Logger
}

// New creates a Serializer from DefaultConfig and opts.
func New(opts ...Option) (*Serializer, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Serializer from cfg.
func NewWithConfig(cfg Config) (*Serializer, error) {
	if cfg.Adapter == "" {
		cfg.Adapter = AdapterNDArray
	}
	if cfg.Registry == nil {
		cfg.Registry = codec.NewRegistry(codec.Builtin(cfg.Parallel)...)
	}

	adapter, err := bridge.AdapterByName(cfg.Adapter, bridge.AdapterConfig{
		Registry: cfg.Registry,
		Parallel: cfg.Parallel,
	})
	if err != nil {
		return nil, err
	}

	return &Serializer{
		cfg: cfg,
		bridge: bridge.New(adapter, bridge.Config{
			Registry:    cfg.Registry,
			MaxElements: cfg.MaxElements,
		}),
		encoder: wire.NewEncoder(cfg.Registry),
		decoder: wire.NewDecoder(cfg.Registry),
		logger:  cfg.Logger,
	}, nil
}

// Config returns the serializer's configuration.
func (s *Serializer) Config() Config {
	return s.cfg
}

// SerializeTensorValue converts a host array into a wire value.
func (s *Serializer) SerializeTensorValue(host Array) (*Value, error) {
	t, err := s.bridge.FromHost(host)
	if err != nil {
		return nil, fmt.Errorf("serialize tensor value: %w", err)
	}

	v, err := s.encoder.Encode(t)
	if err != nil {
		return nil, fmt.Errorf("serialize tensor value: %w", err)
	}

	s.log().Debug("serialized tensor value",
		zap.Stringer("dtype", v.DType),
		zap.Ints("shape", t.Shape()),
		zap.Int("payload_bytes", len(v.Payload)))
	return v, nil
}

// DeserializeTensorValue reconstructs a newly allocated host array from v.
func (s *Serializer) DeserializeTensorValue(v *Value) (Array, error) {
	t, err := s.decoder.Decode(v)
	if err != nil {
		return nil, fmt.Errorf("deserialize tensor value: %w", err)
	}

	host, err := s.bridge.ToHost(t)
	if err != nil {
		return nil, fmt.Errorf("deserialize tensor value: %w", err)
	}

	s.log().Debug("deserialized tensor value",
		zap.Stringer("dtype", v.DType),
		zap.Ints("shape", t.Shape()))
	return host, nil
}

func (s *Serializer) log() *zap.Logger {
	if s.logger != nil {
		return s.logger
	}
	return Logger()
}

var defaultSerializer = func() *Serializer {
	s, err := NewWithConfig(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return s
}()

// Default returns the serializer used by the package-level functions.
func Default() *Serializer {
	return defaultSerializer
}

// SerializeTensorValue converts a host array with the default serializer.
func SerializeTensorValue(host Array) (*Value, error) {
	return defaultSerializer.SerializeTensorValue(host)
}

// DeserializeTensorValue reconstructs a host array with the default
// serializer.
func DeserializeTensorValue(v *Value) (Array, error) {
	return defaultSerializer.DeserializeTensorValue(v)
}

// UnmarshalValue parses the transport bytes produced by Value.Marshal.
func UnmarshalValue(b []byte) (*Value, error) {
	return wire.Unmarshal(b)
}

// Fingerprint returns a 64-bit hash of v's transport bytes.
func Fingerprint(v *Value) uint64 {
	return wire.Fingerprint(v)
}
