package statestore

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/born-ml/tensorwire/internal/bridge"
)

// Flatten turns a nested structure of map[string]any and []any values with
// host array leaves into a flat map keyed by "/"-joined paths.
//
//	Flatten(map[string]any{
//	    "model": map[string]any{"w": w, "b": b},
//	    "steps": []any{s0, s1},
//	})
//	// {"model/b": b, "model/w": w, "steps/0": s0, "steps/1": s1}
func Flatten(structure any) (map[string]bridge.Array, error) {
	switch structure.(type) {
	case map[string]any, []any:
	default:
		return nil, fmt.Errorf("%w: root must be a map or slice, got %T", ErrUnsupportedLeaf, structure)
	}

	out := make(map[string]bridge.Array)
	if err := flatten("", structure, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(path string, v any, out map[string]bridge.Array) error {
	switch x := v.(type) {
	case bridge.Array:
		if _, dup := out[path]; dup {
			return &ValidationError{Err: ErrInvalidEntryName, Entry: path, Detail: "duplicate name"}
		}
		out[path] = x
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := flatten(join(path, k), x[k], out); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range x {
			if err := flatten(join(path, strconv.Itoa(i)), item, out); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %q has type %T", ErrUnsupportedLeaf, path, v)
	}
	return nil
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "/" + name
}

// Pack rebuilds the nesting of template from a flat map produced by Flatten
// or returned by Manager.Load. Maps and slices of template are copied;
// every other value in it is a placeholder replaced by the array stored
// under its path. Every name in flat must be used exactly once.
//
//	state, _ := m.Load(3)
//	packed, err := Pack(map[string]any{"steps": []any{nil, nil}}, state)
//	// packed: map[string]any{"steps": []any{s0, s1}}
func Pack(template any, flat map[string]bridge.Array) (any, error) {
	switch template.(type) {
	case map[string]any, []any:
	default:
		return nil, fmt.Errorf("%w: root must be a map or slice, got %T", ErrUnsupportedLeaf, template)
	}

	used := 0
	out, err := pack("", template, flat, &used)
	if err != nil {
		return nil, err
	}
	if used != len(flat) {
		var extra []string
		for name := range flat {
			if _, err := lookup(template, name); err != nil {
				extra = append(extra, name)
			}
		}
		sort.Strings(extra)
		return nil, fmt.Errorf("%w: %d entries not in structure: %v", ErrStructureMismatch, len(flat)-used, extra)
	}
	return out, nil
}

func pack(path string, v any, flat map[string]bridge.Array, used *int) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(map[string]any, len(x))
		for _, k := range keys {
			p, err := pack(join(path, k), x[k], flat, used)
			if err != nil {
				return nil, err
			}
			out[k] = p
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			p, err := pack(join(path, strconv.Itoa(i)), item, flat, used)
			if err != nil {
				return nil, err
			}
			out[i] = p
		}
		return out, nil
	default:
		a, ok := flat[path]
		if !ok {
			return nil, fmt.Errorf("%w: missing entry %q", ErrStructureMismatch, path)
		}
		*used++
		return a, nil
	}
}

// lookup reports whether name addresses a leaf of template.
func lookup(template any, name string) (any, error) {
	v := template
	for part := range strings.SplitSeq(name, "/") {
		switch x := v.(type) {
		case map[string]any:
			item, ok := x[part]
			if !ok {
				return nil, ErrStructureMismatch
			}
			v = item
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(x) {
				return nil, ErrStructureMismatch
			}
			v = x[i]
		default:
			return nil, ErrStructureMismatch
		}
	}
	switch v.(type) {
	case map[string]any, []any:
		return nil, ErrStructureMismatch
	}
	return v, nil
}
