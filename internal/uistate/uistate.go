// Package uistate keeps the settings panel's collapsed/expanded sections and
// the active category. Section flags are written through on every change.
package uistate

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
)

// Section is one collapsible settings panel.
type Section string

const (
	SectionAPI      Section = "api"
	SectionModels   Section = "models"
	SectionBehavior Section = "behavior"
	SectionPrompts  Section = "prompts"
	SectionHotkey   Section = "hotkey"
	SectionTheme    Section = "theme"
)

// Category groups sections under one navigation entry.
type Category string

const (
	CategoryIntegration  Category = "integration"
	CategoryExperience   Category = "experience"
	CategoryProductivity Category = "productivity"
	CategoryAppearance   Category = "appearance"
)

var (
	ErrUnknownSection  = errors.New("unknown section")
	ErrUnknownCategory = errors.New("unknown category")
)

var sectionDefaults = map[Section]bool{
	SectionAPI:      true,
	SectionModels:   false,
	SectionBehavior: true,
	SectionPrompts:  false,
	SectionHotkey:   true,
	SectionTheme:    true,
}

type category struct {
	key      Category
	sections []Section
}

var categories = []category{
	{key: CategoryIntegration, sections: []Section{SectionAPI, SectionModels}},
	{key: CategoryExperience, sections: []Section{SectionBehavior, SectionPrompts}},
	{key: CategoryProductivity, sections: []Section{SectionHotkey}},
	{key: CategoryAppearance, sections: []Section{SectionTheme}},
}

// Snapshot is a point-in-time copy of the navigation state.
type Snapshot struct {
	Active   Category         `json:"activeCategory"`
	Visible  []Section        `json:"visibleSections"`
	Sections map[Section]bool `json:"sections"`
}

// State is the navigation state container.
type State struct {
	path string

	mu       sync.Mutex
	sections map[Section]bool
	active   Category
}

// ResolvePath returns $XDG_STATE_HOME/translater/sections.json or the
// ~/.local/state fallback.
func ResolvePath() (string, error) {
	stateHome := strings.TrimSpace(os.Getenv("XDG_STATE_HOME"))
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve user home: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "translater", "sections.json"), nil
}

// Open loads stored section flags from path. Only boolean values for known
// sections are honored; a missing or unreadable file yields the defaults.
func Open(path string) *State {
	s := &State{
		path:     path,
		sections: make(map[Section]bool, len(sectionDefaults)),
		active:   CategoryIntegration,
	}
	for k, v := range sectionDefaults {
		s.sections[k] = v
	}

	content, err := os.ReadFile(path)
	if err != nil || !gjson.ValidBytes(content) {
		return s
	}
	stored := gjson.ParseBytes(content)
	for key := range sectionDefaults {
		value := stored.Get(string(key))
		if value.IsBool() {
			s.sections[key] = value.Bool()
		}
	}
	return s
}

// Sections returns every section in display order.
func Sections() []Section {
	out := make([]Section, 0, len(sectionDefaults))
	for _, c := range categories {
		out = append(out, c.sections...)
	}
	return out
}

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.key)
	}
	return out
}

// Expanded reports whether section is expanded. Unknown sections read as
// expanded.
func (s *State) Expanded(section Section) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expanded, ok := s.sections[section]
	return !ok || expanded
}

// Toggle flips one section and persists the result. The in-memory state
// changes even when the write fails.
func (s *State) Toggle(section Section) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sections[section]
	if !ok {
		return false, fmt.Errorf("%w %q", ErrUnknownSection, section)
	}
	s.sections[section] = !current
	return !current, s.persist()
}

// Activate switches the active category and makes sure at least one of its
// sections is expanded. Re-activating the current category is a no-op.
func (s *State) Activate(name Category) (Snapshot, error) {
	idx := slices.IndexFunc(categories, func(c category) bool { return c.key == name })
	if idx < 0 {
		return Snapshot{}, fmt.Errorf("%w %q", ErrUnknownCategory, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == name {
		return s.snapshot(), nil
	}
	s.active = name

	members := categories[idx].sections
	if !slices.ContainsFunc(members, func(sec Section) bool { return s.sections[sec] }) {
		s.sections[members[0]] = true
		return s.snapshot(), s.persist()
	}
	return s.snapshot(), nil
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *State) snapshot() Snapshot {
	out := Snapshot{
		Active:   s.active,
		Sections: make(map[Section]bool, len(s.sections)),
	}
	for k, v := range s.sections {
		out.Sections[k] = v
	}
	for _, c := range categories {
		if c.key == s.active {
			out.Visible = slices.Clone(c.sections)
		}
	}
	return out
}

// persist writes the full section snapshot. Callers hold mu.
func (s *State) persist() error {
	data, err := json.Marshal(s.sections)
	if err != nil {
		return fmt.Errorf("encode section state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create state dir %q: %w", dir, err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write section state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace section state %q: %w", s.path, err)
	}
	return nil
}
