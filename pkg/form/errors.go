package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrSchema is wrapped by every SchemaError so callers can match the kind
	// with errors.Is.
	ErrSchema = errors.New("form: schema mismatch")
	// ErrUnknownField is wrapped by every UnknownFieldError.
	ErrUnknownField = errors.New("form: unknown field")
)

// SchemaError reports a construction-time mismatch between a schema and the
// values supplied for it, or a malformed schema definition.
type SchemaError struct {
	Missing []string
	Extra   []string
	Reason  string
}

func (e *SchemaError) Error() string {
	var parts []string
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if len(e.Missing) > 0 {
		parts = append(parts, "missing fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected fields: "+strings.Join(e.Extra, ", "))
	}
	if len(parts) == 0 {
		return ErrSchema.Error()
	}
	return fmt.Sprintf("%s: %s", ErrSchema.Error(), strings.Join(parts, "; "))
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// UnknownFieldError reports a reference to a field the schema does not
// declare. It signals a programming error, never invalid user input.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("%s %q", ErrUnknownField.Error(), e.Field)
}

func (e *UnknownFieldError) Unwrap() error { return ErrUnknownField }

// checkKeys compares the supplied values against the declared field set.
func checkKeys(schema Schema, values map[string]string) error {
	var missing, extra []string
	for _, field := range schema.fields {
		if _, ok := values[field.Name]; !ok {
			missing = append(missing, field.Name)
		}
	}
	for name := range values {
		if !schema.Has(name) {
			extra = append(extra, name)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	return &SchemaError{Missing: missing, Extra: extra}
}
