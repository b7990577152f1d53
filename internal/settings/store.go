package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"gopkg.in/yaml.v3"
)

// Loaded captures the settings path, the normalized value, and non-fatal
// warnings.
type Loaded struct {
	Path     string
	Settings Settings
	Warnings []Warning
	Exists   bool
}

// Store persists Settings as a JSON object at a fixed path.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and normalizes the settings file. A missing or corrupt file
// yields defaults plus a warning; only unreadable files are errors.
func (s *Store) Load() (Loaded, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

func (s *Store) load() (Loaded, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Loaded{
				Path:     s.path,
				Settings: Default(),
				Warnings: []Warning{{
					Message: fmt.Sprintf("settings file %q not found; using defaults", s.path),
				}},
			}, nil
		}
		return Loaded{}, fmt.Errorf("read settings %q: %w", s.path, err)
	}

	loaded := Loaded{Path: s.path, Exists: true}
	switch {
	case !gjson.ValidBytes(content):
		loaded.Warnings = append(loaded.Warnings, Warning{
			Message: fmt.Sprintf("settings file %q is not valid JSON; using defaults", s.path),
		})
	case !gjson.ParseBytes(content).IsObject():
		loaded.Warnings = append(loaded.Warnings, Warning{
			Message: fmt.Sprintf("settings file %q is not a JSON object; using defaults", s.path),
		})
	}
	loaded.Settings = NormalizeJSON(content)
	return loaded, nil
}

// Save normalizes cfg, writes it atomically with 0600 permissions, and returns
// the value actually persisted.
func (s *Store) Save(cfg Settings) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(cfg)
}

func (s *Store) save(cfg Settings) (Settings, error) {
	normalized := Normalize(Denormalize(cfg))

	data, err := Encode(normalized)
	if err != nil {
		return Settings{}, err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return Settings{}, err
	}
	return normalized, nil
}

// Encode renders s as the indented JSON document stored on disk.
func Encode(s Settings) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return pretty.PrettyOptions(data, &pretty.Options{Width: 80, Indent: "  "}), nil
}

// Update applies edits to the stored settings and persists the result.
func (s *Store) Update(edits Record) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load()
	if err != nil {
		return Settings{}, err
	}
	return s.save(Apply(current.Settings, edits))
}

// Import reads a JSON or YAML settings export and persists its normalized
// form. Keys absent from the export take their defaults.
func (s *Store) Import(path string) (Settings, error) {
	raw, err := ReadRecord(path)
	if err != nil {
		return Settings{}, err
	}
	return s.Save(Normalize(raw))
}

// ReadRecord decodes a settings export. Files ending in .yaml or .yml are
// parsed as YAML; everything else as JSON.
func ReadRecord(path string) (Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings export %q: %w", path, err)
	}

	raw := Record{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("parse settings export %q: %w", path, err)
		}
	default:
		if !gjson.ValidBytes(content) {
			return nil, fmt.Errorf("parse settings export %q: invalid JSON", path)
		}
		doc := gjson.ParseBytes(content)
		if !doc.IsObject() {
			return nil, fmt.Errorf("parse settings export %q: root must be an object", path)
		}
		raw, _ = doc.Value().(map[string]any)
	}
	return raw, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create settings dir %q: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace settings %q: %w", path, err)
	}
	return nil
}
