// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensorwire

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/born-ml/tensorwire/internal/bridge"
	"github.com/born-ml/tensorwire/internal/codec"
	"github.com/born-ml/tensorwire/internal/options"
	"github.com/born-ml/tensorwire/internal/parallel"
	"github.com/born-ml/tensorwire/internal/tensor"
)

// Adapter names accepted by WithAdapter.
const (
	AdapterNDArray = bridge.NDArrayName
	AdapterRawView = bridge.RawViewName
)

// ParallelConfig controls chunked conversion of large buffers.
type ParallelConfig = parallel.Config

// Registry decides which data types a Serializer accepts.
type Registry = codec.Registry

// Config holds Serializer settings.
type Config struct {
	// Adapter names the host array adapter (default "ndarray").
	Adapter string

	// MaxElements caps the element count of host arrays allocated by
	// DeserializeTensorValue. Zero means no cap.
	MaxElements int

	// Registry restricts the accepted data types. nil accepts every
	// built-in type.
	Registry *Registry

	// Parallel controls chunked conversion of large buffers.
	Parallel ParallelConfig

	// Logger receives per-call debug logs. nil selects Logger().
	Logger *zap.Logger
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Adapter:  AdapterNDArray,
		Parallel: parallel.DefaultConfig(),
	}
}

// Option configures a Serializer.
type Option = options.Option[*Config]

// WithAdapter selects the host array adapter by name.
func WithAdapter(name string) Option {
	return options.New(func(c *Config) error {
		if !slices.Contains(bridge.AdapterNames(), name) {
			return fmt.Errorf("tensorwire: unknown adapter %q", name)
		}
		c.Adapter = name
		return nil
	})
}

// WithMaxElements caps the size of host arrays the serializer allocates.
func WithMaxElements(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return errors.New("tensorwire: max elements must be >= 0")
		}
		c.MaxElements = n
		return nil
	})
}

// WithRegistry restricts the accepted data types to those in r.
func WithRegistry(r *Registry) Option {
	return options.NoError(func(c *Config) {
		c.Registry = r
	})
}

// WithParallel sets the parallel conversion settings.
func WithParallel(p ParallelConfig) Option {
	return options.NoError(func(c *Config) {
		c.Parallel = p
	})
}

// WithLogger sets the logger for one serializer.
func WithLogger(l *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		c.Logger = l
	})
}

// NewRegistry returns a registry holding the built-in codecs of the given
// data types only.
func NewRegistry(cfg ParallelConfig, dts ...DataType) (*Registry, error) {
	byType := make(map[tensor.DataType]codec.ElementCodec)
	for _, c := range codec.Builtin(cfg) {
		byType[c.DataType()] = c
	}

	codecs := make([]codec.ElementCodec, 0, len(dts))
	for _, dt := range dts {
		c, ok := byType[dt]
		if !ok {
			return nil, &DTypeError{DType: dt}
		}
		delete(byType, dt)
		codecs = append(codecs, c)
	}
	return codec.NewRegistry(codecs...), nil
}
