package uischema

import (
	"sort"

	"github.com/goliatone/go-formstate/pkg/form"
)

// Store keeps the parsed screens from UI schema documents. It is safe for
// concurrent readers when treated as immutable after construction.
type Store struct {
	screens map[string]Screen
}

// Screen is a compiled screen definition.
type Screen struct {
	ID          string
	Source      string
	Title       string
	Heading     string
	SubmitLabel string
	OnSuccess   SuccessConfig
	Links       []LinkConfig
	Fields      []FieldConfig
	Schema      form.Schema
}

// Field returns the display configuration for name.
func (s Screen) Field(name string) (FieldConfig, bool) {
	for _, field := range s.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldConfig{}, false
}

// SecretFields lists the fields entered without echo.
func (s Screen) SecretFields() []string {
	var out []string
	for _, field := range s.Fields {
		if field.Secret {
			out = append(out, field.Name)
		}
	}
	return out
}

// SuccessConfig describes what a screen does once a submit passes the gate.
// Navigate names the next screen; Back returns to the previous one; Reset
// clears the form and keeps the screen open.
type SuccessConfig struct {
	Message  string `json:"message" yaml:"message"`
	Navigate string `json:"navigate,omitempty" yaml:"navigate,omitempty"`
	Back     bool   `json:"back,omitempty" yaml:"back,omitempty"`
	Reset    bool   `json:"reset,omitempty" yaml:"reset,omitempty"`
}

// LinkConfig is a secondary navigation action shown below the form.
type LinkConfig struct {
	Label  string `json:"label" yaml:"label"`
	Screen string `json:"screen" yaml:"screen"`
}

// FieldConfig carries the display hints of one field.
type FieldConfig struct {
	Name        string `json:"name" yaml:"name"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Secret      bool   `json:"secret,omitempty" yaml:"secret,omitempty"`
	Keyboard    string `json:"keyboard,omitempty" yaml:"keyboard,omitempty"`
}

// Prompt returns the text a front end shows for the field.
func (f FieldConfig) Prompt() string {
	if f.Placeholder != "" {
		return f.Placeholder
	}
	if f.Label != "" {
		return f.Label
	}
	return form.DefaultLabel(f.Name)
}

// Screen returns the definition for id.
func (s *Store) Screen(id string) (Screen, bool) {
	if s == nil {
		return Screen{}, false
	}
	screen, ok := s.screens[id]
	return screen, ok
}

// IDs returns the screen ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.screens))
	for id := range s.screens {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty reports whether the store holds any screens.
func (s *Store) Empty() bool {
	return s == nil || len(s.screens) == 0
}

// Merge returns a store holding the screens of s overridden by other.
func (s *Store) Merge(other *Store) *Store {
	out := &Store{screens: make(map[string]Screen)}
	for _, src := range []*Store{s, other} {
		if src == nil {
			continue
		}
		for id, screen := range src.screens {
			out.screens[id] = screen
		}
	}
	return out
}
