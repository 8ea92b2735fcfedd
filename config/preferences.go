package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Preference keys remembered between runs.
const (
	PrefMaxRatingDelta = "max_rating_delta"
	PrefSource         = "source"
	PrefColorA         = "colors.a"
	PrefColorB         = "colors.b"
)

// Preferences is a small persisted key-value store. Values are stored as
// JSON so any serializable value round-trips through Set and Get.
type Preferences struct {
	path string

	mu sync.Mutex
	k  *koanf.Koanf
}

// OpenPreferences loads the preferences at path. A missing file yields an
// empty store.
func OpenPreferences(path string) (*Preferences, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), kjson.Parser()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("preferences: %w", err)
	}
	return &Preferences{path: path, k: k}, nil
}

// Has reports whether key is set.
func (p *Preferences) Has(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.k.Exists(key)
}

// Get decodes the value stored at key into out. It reports false when the
// key is absent.
func (p *Preferences) Get(key string, out any) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.k.Exists(key) {
		return false, nil
	}
	if err := p.k.UnmarshalWithConf(key, out, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return true, fmt.Errorf("preferences %q: %w", key, err)
	}
	return true, nil
}

// Set stores value at key. It is not persisted until Save.
func (p *Preferences) Set(key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("preferences %q: %w", key, err)
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return fmt.Errorf("preferences %q: %w", key, err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	// replace rather than merge so shrinking maps drop old keys
	p.k.Delete(key)
	return p.k.Set(key, generic)
}

// Save writes the preferences to disk.
func (p *Preferences) Save() error {
	p.mu.Lock()
	b, err := p.k.Marshal(kjson.Parser())
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	if dir := filepath.Dir(p.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("preferences: %w", err)
		}
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	return os.Rename(tmp, p.path)
}
