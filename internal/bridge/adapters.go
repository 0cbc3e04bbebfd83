package bridge

import (
	"fmt"

	"github.com/born-ml/tensorwire/internal/codec"
	"github.com/born-ml/tensorwire/internal/parallel"
)

// AdapterConfig carries what adapters may need to convert buffers.
type AdapterConfig struct {
	Registry *codec.Registry
	Parallel parallel.Config
}

// AdapterNames lists the adapters AdapterByName knows.
func AdapterNames() []string {
	return []string{NDArrayName, RawViewName}
}

// AdapterByName returns the named adapter configured with cfg.
func AdapterByName(name string, cfg AdapterConfig) (Adapter, error) {
	switch name {
	case NDArrayName:
		return NewNDArrayAdapter(cfg.Parallel), nil
	case RawViewName:
		return NewRawViewAdapter(cfg.Registry), nil
	default:
		return nil, fmt.Errorf("bridge: unknown adapter %q (known: %v)", name, AdapterNames())
	}
}
