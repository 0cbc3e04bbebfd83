package statestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/born-ml/tensorwire/internal/bridge"
	"github.com/born-ml/tensorwire/internal/options"
	"github.com/born-ml/tensorwire/internal/wire"
)

// Codec converts host arrays to wire values and back.
type Codec interface {
	SerializeTensorValue(host bridge.Array) (*wire.Value, error)
	DeserializeTensorValue(v *wire.Value) (bridge.Array, error)
}

// Config controls file naming and retention.
type Config struct {
	// Prefix of every state file name.
	Prefix string

	// KeepTotal is the number of versions to keep. Zero or negative keeps
	// every version.
	KeepTotal int

	// KeepFirst keeps the oldest version regardless of KeepTotal.
	KeepFirst bool
}

// DefaultConfig returns the default retention settings.
func DefaultConfig() Config {
	return Config{
		Prefix:    "program_state_",
		KeepTotal: 5,
		KeepFirst: true,
	}
}

// Option configures a Manager.
type Option = options.Option[*Config]

// WithPrefix sets the file name prefix.
func WithPrefix(prefix string) Option {
	return options.New(func(c *Config) error {
		if strings.ContainsAny(prefix, `/\`) {
			return fmt.Errorf("statestore: prefix %q contains a path separator", prefix)
		}
		c.Prefix = prefix
		return nil
	})
}

// WithKeepTotal sets how many versions are kept.
func WithKeepTotal(n int) Option {
	return options.NoError(func(c *Config) {
		c.KeepTotal = n
	})
}

// WithKeepFirst sets whether the first version is always kept.
func WithKeepFirst(keep bool) Option {
	return options.NoError(func(c *Config) {
		c.KeepFirst = keep
	})
}

// Manager saves and loads versioned program state under a root directory.
// A Manager is safe for concurrent use.
type Manager struct {
	root  string
	codec Codec
	cfg   Config
	mu    sync.Mutex
}

// NewManager returns a Manager storing state under root, creating the
// directory if needed.
func NewManager(root string, codec Codec, opts ...Option) (*Manager, error) {
	if root == "" {
		return nil, errors.New("statestore: root directory must not be empty")
	}
	if codec == nil {
		return nil, errors.New("statestore: codec must not be nil")
	}

	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("statestore: create root: %w", err)
	}
	return &Manager{root: root, codec: codec, cfg: cfg}, nil
}

// Root returns the root directory.
func (m *Manager) Root() string {
	return m.root
}

// Path returns the file path of version.
func (m *Manager) Path(version int) string {
	return filepath.Join(m.root, m.cfg.Prefix+strconv.Itoa(version))
}

// Versions returns the saved versions in ascending order, or nil if there
// are none.
func (m *Manager) Versions() ([]int, error) {
	entries, err := os.ReadDir(m.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("statestore: list versions: %w", err)
	}

	var versions []int
	for _, e := range entries {
		if v, ok := m.versionOf(e.Name()); ok {
			versions = append(versions, v)
		}
	}
	sort.Ints(versions)
	return versions, nil
}

func (m *Manager) versionOf(name string) (int, bool) {
	suffix, ok := strings.CutPrefix(name, m.cfg.Prefix)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Save serializes state and stores it as version. Saving an existing
// version fails with ErrVersionExists. Old versions beyond the retention
// settings are removed afterwards.
func (m *Manager) Save(state map[string]bridge.Array, version int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := m.Path(version)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %d", ErrVersionExists, version)
	}

	entries := make([]Entry, 0, len(state))
	for name, host := range state {
		if err := ValidateEntryName(name); err != nil {
			return err
		}
		v, err := m.codec.SerializeTensorValue(host)
		if err != nil {
			return fmt.Errorf("statestore: serialize %q: %w", name, err)
		}
		entries = append(entries, Entry{Name: name, Value: v})
	}

	temp := path + "_temp"
	if err := os.RemoveAll(temp); err != nil {
		return fmt.Errorf("statestore: clear temp file: %w", err)
	}
	header := Header{CreatedAt: time.Now().UTC(), Version: version}
	if err := WriteFile(temp, entries, header); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("statestore: write version %d: %w", version, err)
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("statestore: rename version %d: %w", version, err)
	}
	Logger().Info("program state saved", zap.String("path", path), zap.Int("entries", len(entries)))

	return m.removeOld()
}

// Load returns the program state saved as version.
func (m *Manager) Load(version int) (map[string]bridge.Array, error) {
	path := m.Path(version)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %d", ErrVersionNotFound, version)
	}

	r, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("statestore: open version %d: %w", version, err)
	}
	defer func() { _ = r.Close() }()

	if err := r.VerifyChecksum(); err != nil {
		return nil, fmt.Errorf("statestore: version %d: %w", version, err)
	}

	entries, err := r.Entries()
	if err != nil {
		return nil, fmt.Errorf("statestore: version %d: %w", version, err)
	}

	state := make(map[string]bridge.Array, len(entries))
	for _, e := range entries {
		host, err := m.codec.DeserializeTensorValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("statestore: deserialize %q: %w", e.Name, err)
		}
		state[e.Name] = host
	}
	Logger().Info("program state loaded", zap.String("path", path))
	return state, nil
}

// LoadLatest returns the program state with the highest version.
func (m *Manager) LoadLatest() (map[string]bridge.Array, int, error) {
	versions, err := m.Versions()
	if err != nil {
		return nil, 0, err
	}
	if len(versions) == 0 {
		return nil, 0, fmt.Errorf("%w: no saved versions", ErrVersionNotFound)
	}
	latest := versions[len(versions)-1]
	state, err := m.Load(latest)
	return state, latest, err
}

func (m *Manager) remove(version int) error {
	path := m.Path(version)
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("statestore: remove version %d: %w", version, err)
	}
	Logger().Info("program state removed", zap.String("path", path))
	return nil
}

// removeOld keeps the newest KeepTotal versions, counting the first version
// among them when KeepFirst is set.
func (m *Manager) removeOld() error {
	if m.cfg.KeepTotal <= 0 {
		return nil
	}
	versions, err := m.Versions()
	if err != nil || len(versions) <= m.cfg.KeepTotal {
		return err
	}

	start := 0
	if m.cfg.KeepFirst {
		start = 1
	}
	stop := len(versions) - m.cfg.KeepTotal + start
	for _, v := range versions[start:stop] {
		if err := m.remove(v); err != nil {
			return err
		}
	}
	return nil
}
