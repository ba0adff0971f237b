// Package prefs persists the export toggles between runs.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/porticus-lab/convo-pdf/internal/message"
)

// Preferences are the stored export toggles.
type Preferences struct {
	RemoveLogo    bool `yaml:"removeLogo" json:"removeLogo"`
	LandscapeMode bool `yaml:"landscapeMode" json:"landscapeMode"`
	AddToc        bool `yaml:"addToc" json:"addToc"`
	GptOnly       bool `yaml:"gptOnly" json:"gptOnly"`
}

// Defaults is what a fresh installation starts with: every toggle off.
func Defaults() Preferences {
	return Preferences{}
}

// Options converts the preferences into request options for kind.
func (p Preferences) Options(kind message.Kind) message.Options {
	return message.Options{
		RemoveLogo:    p.RemoveLogo,
		LandscapeMode: p.LandscapeMode,
		AddToc:        p.AddToc,
		GptOnly:       p.GptOnly,
		Type:          kind,
	}
}

// Keys lists the preference names accepted by Set.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var fields = map[string]func(*Preferences) *bool{
	"removeLogo":    func(p *Preferences) *bool { return &p.RemoveLogo },
	"landscapeMode": func(p *Preferences) *bool { return &p.LandscapeMode },
	"addToc":        func(p *Preferences) *bool { return &p.AddToc },
	"gptOnly":       func(p *Preferences) *bool { return &p.GptOnly },
}

// Set assigns one preference by name from a boolean string.
func (p *Preferences) Set(key, value string) error {
	field, ok := fields[key]
	if !ok {
		return fmt.Errorf("prefs: unknown preference %q", key)
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("prefs: %s: %w", key, err)
	}
	*field(p) = b
	return nil
}

// Store reads and writes preferences. Get returns defaults for any value
// never stored.
type Store interface {
	Get(ctx context.Context, defaults Preferences) (Preferences, error)
	Set(ctx context.Context, p Preferences) error
}

// FileStore keeps preferences in a YAML file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on the
// first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath is the per-user preference file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("prefs: locating config dir: %w", err)
	}
	return filepath.Join(dir, "convopdf", "preferences.yaml"), nil
}

// Path is the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(ctx context.Context, defaults Preferences) (Preferences, error) {
	if err := ctx.Err(); err != nil {
		return defaults, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return defaults, fmt.Errorf("prefs: reading %s: %w", s.path, err)
	}
	p := defaults
	if err := yaml.Unmarshal(data, &p); err != nil {
		return defaults, fmt.Errorf("prefs: parsing %s: %w", s.path, err)
	}
	return p, nil
}

// Set writes p atomically, replacing whatever was stored.
func (s *FileStore) Set(ctx context.Context, p Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("prefs: encoding: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".preferences-*.yaml")
	if err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("prefs: writing: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("prefs: writing: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	return nil
}

// MemoryStore keeps preferences in memory.
type MemoryStore struct {
	mu  sync.Mutex
	p   Preferences
	set bool
}

func (s *MemoryStore) Get(ctx context.Context, defaults Preferences) (Preferences, error) {
	if err := ctx.Err(); err != nil {
		return defaults, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return defaults, nil
	}
	return s.p, nil
}

func (s *MemoryStore) Set(ctx context.Context, p Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p, s.set = p, true
	return nil
}
