package uischema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/form"
)

// LoadFS walks the provided filesystem and parses JSON/YAML UI schema files.
// When fsys is nil or no schema files are present, the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{screens: make(map[string]Screen)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if !isSchemaFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", path, err)
		}
		return store.add(data, path)
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Parse builds a store from a single document. source is used in error
// messages only.
func Parse(data []byte, source string) (*Store, error) {
	store := &Store{screens: make(map[string]Screen)}
	if err := store.add(data, source); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) add(data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}

	for rawID, raw := range doc.Screens {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("uischema: file %s defines an empty screen id", source)
		}
		if _, exists := s.screens[id]; exists {
			return fmt.Errorf("uischema: duplicate screen %q (file %s)", id, source)
		}

		screen, err := normaliseScreen(raw, id, source)
		if err != nil {
			return err
		}
		s.screens[id] = screen
	}
	return nil
}

type documentFile struct {
	Screens map[string]screenFile `json:"screens" yaml:"screens"`
}

type screenFile struct {
	Title       string        `json:"title" yaml:"title"`
	Heading     string        `json:"heading" yaml:"heading"`
	SubmitLabel string        `json:"submitLabel" yaml:"submitLabel"`
	OnSuccess   SuccessConfig `json:"onSuccess" yaml:"onSuccess"`
	Links       []LinkConfig  `json:"links" yaml:"links"`
	Fields      []fieldFile   `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	FieldConfig `json:",inline" yaml:",inline"`
	Rules       []ruleFile `json:"rules" yaml:"rules"`
}

type ruleFile struct {
	Kind    string `json:"kind" yaml:"kind"`
	Value   *int   `json:"value,omitempty" yaml:"value,omitempty"`
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Field   string `json:"field,omitempty" yaml:"field,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("uischema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("uischema: parse %s: invalid JSON or YAML", source)
}

func normaliseScreen(raw screenFile, id, source string) (Screen, error) {
	if len(raw.Fields) == 0 {
		return Screen{}, fmt.Errorf("uischema: screen %q (file %s) declares no fields", id, source)
	}

	screen := Screen{
		ID:          id,
		Source:      source,
		Title:       strings.TrimSpace(raw.Title),
		Heading:     strings.TrimSpace(raw.Heading),
		SubmitLabel: strings.TrimSpace(raw.SubmitLabel),
		OnSuccess:   raw.OnSuccess,
		Links:       append([]LinkConfig(nil), raw.Links...),
		Fields:      make([]FieldConfig, 0, len(raw.Fields)),
	}
	if screen.Title == "" {
		screen.Title = form.DefaultLabel(id)
	}
	if screen.SubmitLabel == "" {
		screen.SubmitLabel = "Submit"
	}
	if screen.OnSuccess.Back && screen.OnSuccess.Navigate != "" {
		return Screen{}, fmt.Errorf("uischema: screen %q (file %s) sets both onSuccess.back and onSuccess.navigate", id, source)
	}

	declared := make([]form.FieldSchema, 0, len(raw.Fields))
	for idx, field := range raw.Fields {
		cfg := field.FieldConfig
		cfg.Name = strings.TrimSpace(cfg.Name)
		if cfg.Name == "" {
			return Screen{}, fmt.Errorf("uischema: screen %q (file %s) field at index %d has no name", id, source, idx)
		}
		if cfg.Label == "" {
			cfg.Label = form.DefaultLabel(cfg.Name)
		}

		rules := make([]form.Rule, 0, len(field.Rules))
		for ruleIdx, rf := range field.Rules {
			rule, err := compileRule(rf)
			if err != nil {
				return Screen{}, fmt.Errorf("uischema: screen %q (file %s) field %q rule %d: %w", id, source, cfg.Name, ruleIdx, err)
			}
			rules = append(rules, rule)
		}

		screen.Fields = append(screen.Fields, cfg)
		declared = append(declared, form.FieldSchema{Name: cfg.Name, Label: cfg.Label, Rules: rules})
	}

	schema, err := form.NewSchema(declared...)
	if err != nil {
		return Screen{}, fmt.Errorf("uischema: screen %q (file %s): %w", id, source, err)
	}
	screen.Schema = schema
	return screen, nil
}

func compileRule(rf ruleFile) (form.Rule, error) {
	switch strings.TrimSpace(rf.Kind) {
	case form.RuleRequired:
		return form.Required(rf.Message), nil
	case form.RuleMinLength:
		n, err := lengthValue(rf)
		if err != nil {
			return form.Rule{}, err
		}
		return form.MinLength(n, rf.Message), nil
	case form.RuleMaxLength:
		n, err := lengthValue(rf)
		if err != nil {
			return form.Rule{}, err
		}
		return form.MaxLength(n, rf.Message), nil
	case form.RuleEmail:
		return form.Email(rf.Message), nil
	case form.RulePattern:
		if strings.TrimSpace(rf.Pattern) == "" {
			return form.Rule{}, fmt.Errorf("%s requires a pattern", form.RulePattern)
		}
		expr, err := regexp.Compile(rf.Pattern)
		if err != nil {
			return form.Rule{}, fmt.Errorf("compile pattern: %w", err)
		}
		return form.Pattern(expr, rf.Message), nil
	case form.RuleEqualsField:
		other := strings.TrimSpace(rf.Field)
		if other == "" {
			return form.Rule{}, fmt.Errorf("%s requires a field", form.RuleEqualsField)
		}
		return form.EqualsField(other, rf.Message), nil
	case "":
		return form.Rule{}, fmt.Errorf("rule kind is required")
	default:
		return form.Rule{}, fmt.Errorf("unknown rule kind %q", rf.Kind)
	}
}

func lengthValue(rf ruleFile) (int, error) {
	if rf.Value == nil {
		return 0, fmt.Errorf("%s requires a value", rf.Kind)
	}
	if *rf.Value < 0 {
		return 0, fmt.Errorf("%s value must not be negative, got %d", rf.Kind, *rf.Value)
	}
	return *rf.Value, nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
