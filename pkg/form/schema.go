package form

import (
	"fmt"
	"sort"
	"strings"
)

// Values maps field names to their current string values.
type Values map[string]string

// Clone returns an independent copy of v.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}

// FieldSchema holds the ordered rules for one field. Label feeds the default
// messages; when empty it is derived from Name with DefaultLabel.
type FieldSchema struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Rules []Rule `json:"rules,omitempty"`
}

// Field is shorthand for a FieldSchema with a derived label.
func Field(name string, rules ...Rule) FieldSchema {
	return FieldSchema{Name: name, Rules: rules}
}

// WithLabel returns a copy of f using label in default messages.
func (f FieldSchema) WithLabel(label string) FieldSchema {
	f.Label = label
	return f
}

// Validate evaluates the rules in declaration order and returns the message
// of the first one that fails.
func (f FieldSchema) Validate(value string, values Values) (string, bool) {
	for _, rule := range f.Rules {
		if !rule.Passes(value, values) {
			return rule.Message, true
		}
	}
	return "", false
}

// Schema is the fixed, ordered set of fields a form validates. Build it with
// NewSchema; the zero value declares no fields.
type Schema struct {
	fields     []FieldSchema
	index      map[string]int
	dependents map[string][]string
}

// NewSchema validates the field declarations, renders every rule message for
// its field and indexes cross-field references.
func NewSchema(fields ...FieldSchema) (Schema, error) {
	schema := Schema{
		fields:     make([]FieldSchema, 0, len(fields)),
		index:      make(map[string]int, len(fields)),
		dependents: make(map[string][]string),
	}

	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return Schema{}, &SchemaError{Reason: "field name is required"}
		}
		if _, exists := schema.index[name]; exists {
			return Schema{}, &SchemaError{Reason: fmt.Sprintf("duplicate field %q", name)}
		}
		field.Name = name
		if strings.TrimSpace(field.Label) == "" {
			field.Label = DefaultLabel(name)
		}
		schema.index[name] = len(schema.fields)
		schema.fields = append(schema.fields, field)
	}

	direct := make(map[string][]string)
	for i, field := range schema.fields {
		rules := make([]Rule, len(field.Rules))
		for j, rule := range field.Rules {
			for _, ref := range rule.Refs {
				if _, ok := schema.index[ref]; !ok {
					return Schema{}, &SchemaError{Reason: fmt.Sprintf("field %q references undeclared field %q", field.Name, ref)}
				}
				if ref != field.Name {
					direct[ref] = appendUnique(direct[ref], field.Name)
				}
			}
			rule.Message = renderMessage(rule.Message, field, rule)
			rules[j] = rule
		}
		schema.fields[i].Rules = rules
	}

	for _, field := range schema.fields {
		if deps := schema.closure(field.Name, direct); len(deps) > 0 {
			schema.dependents[field.Name] = deps
		}
	}
	return schema, nil
}

// MustSchema is NewSchema for static declarations; it panics on error.
func MustSchema(fields ...FieldSchema) Schema {
	schema, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return schema
}

// Fields returns the field declarations in order.
func (s Schema) Fields() []FieldSchema {
	return append([]FieldSchema(nil), s.fields...)
}

// Names returns the declared field names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, field := range s.fields {
		names[i] = field.Name
	}
	return names
}

// Has reports whether name is declared.
func (s Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Field returns the declaration for name.
func (s Schema) Field(name string) (FieldSchema, bool) {
	idx, ok := s.index[name]
	if !ok {
		return FieldSchema{}, false
	}
	return s.fields[idx], true
}

// Dependents lists, in declaration order, every field whose rules read name
// directly or through another dependent.
func (s Schema) Dependents(name string) []string {
	return append([]string(nil), s.dependents[name]...)
}

// Validate returns the first failing message for name against values.
func (s Schema) Validate(name string, values Values) (string, bool) {
	field, ok := s.Field(name)
	if !ok {
		return "", false
	}
	return field.Validate(values[name], values)
}

func (s Schema) closure(name string, direct map[string][]string) []string {
	seen := map[string]bool{name: true}
	queue := append([]string(nil), direct[name]...)
	var out []string
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		out = append(out, next)
		queue = append(queue, direct[next]...)
	}
	sort.Slice(out, func(i, j int) bool {
		return s.index[out[i]] < s.index[out[j]]
	})
	return out
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
