package form

import "go.uber.org/zap"

// Form is the validation engine for one screen session. It owns the field
// values, touched flags and computed errors, and is driven synchronously by
// change, blur and submit events. A Form is not safe for concurrent use.
type Form struct {
	schema  Schema
	initial Values
	values  Values
	touched map[string]bool
	errors  map[string]string

	submitAttempted bool
	submitCount     int

	transformers []SubmitTransformer
	logger       *zap.Logger
}

// New creates a form over schema seeded with initial. initial must hold
// exactly the declared fields, otherwise a *SchemaError is returned.
func New(schema Schema, initial map[string]string, opts ...Option) (*Form, error) {
	if err := checkKeys(schema, initial); err != nil {
		return nil, err
	}

	f := &Form{
		schema:  schema,
		initial: Values(initial).Clone(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	f.restore(f.initial)
	return f, nil
}

// Empty returns initial values for schema with every field set to "".
func Empty(schema Schema) map[string]string {
	out := make(map[string]string, len(schema.fields))
	for _, field := range schema.fields {
		out[field.Name] = ""
	}
	return out
}

// Schema returns the schema the form validates against.
func (f *Form) Schema() Schema {
	return f.schema
}

// Fields returns the declared field names in order.
func (f *Form) Fields() []string {
	return f.schema.Names()
}

// Label returns the display label of a declared field.
func (f *Form) Label(field string) string {
	decl, _ := f.schema.Field(field)
	return decl.Label
}

// SetValue records a change event. Every field is revalidated against the
// new values, so the error map and IsValid describe the whole form after the
// call; untouched fields keep their errors hidden from VisibleError.
func (f *Form) SetValue(field, value string) error {
	if !f.schema.Has(field) {
		return &UnknownFieldError{Field: field}
	}
	f.values[field] = value
	f.revalidateAll()
	f.logger.Debug("form value changed",
		zap.String("field", field),
		zap.Strings("dependents", f.schema.Dependents(field)),
		zap.Bool("valid", f.IsValid()),
	)
	return nil
}

// MarkTouched records a blur event. The field becomes eligible for error
// display and the form is validated against the current values. Calling it
// again has no further effect.
func (f *Form) MarkTouched(field string) error {
	if !f.schema.Has(field) {
		return &UnknownFieldError{Field: field}
	}
	f.touched[field] = true
	f.revalidateAll()
	return nil
}

// ValidateAll touches every field, recomputes every error and reports whether
// the form is valid. Submit actions must pass this gate.
func (f *Form) ValidateAll() bool {
	for _, field := range f.schema.fields {
		f.touched[field.Name] = true
	}
	f.revalidateAll()
	valid := f.IsValid()
	f.logger.Debug("form validated",
		zap.Bool("valid", valid),
		zap.Int("errors", len(f.errors)),
	)
	return valid
}

// Submit runs the submit transformers over the values, keeps their output as
// the form's values and then runs the validation gate on it. When the form is
// valid onValid receives a copy of those values and Submit returns true.
// Otherwise nothing else happens and the now visible errors are left for the
// caller to display.
func (f *Form) Submit(onValid func(Values)) bool {
	f.submitAttempted = true
	f.submitCount++
	f.transform()
	if !f.ValidateAll() {
		f.logger.Debug("form submit blocked", zap.Int("attempt", f.submitCount))
		return false
	}

	f.logger.Debug("form submitted", zap.Int("attempt", f.submitCount))
	if onValid != nil {
		onValid(f.values.Clone())
	}
	return true
}

// transform applies the submit transformers. Only declared fields are taken
// from their output; a field a transformer drops becomes "".
func (f *Form) transform() {
	if len(f.transformers) == 0 {
		return
	}
	next := f.values.Clone()
	for _, fn := range f.transformers {
		if out := fn(next.Clone()); out != nil {
			next = out
		}
	}
	for _, field := range f.schema.fields {
		f.values[field.Name] = next[field.Name]
	}
}

// Reset returns the form to a pristine state: values back to the initial
// values, no touched fields, no errors. A supplied override must declare
// exactly the schema's fields and becomes the new initial values.
func (f *Form) Reset(override ...map[string]string) error {
	if len(override) > 0 && override[0] != nil {
		if err := checkKeys(f.schema, override[0]); err != nil {
			return err
		}
		f.initial = Values(override[0]).Clone()
	}
	f.restore(f.initial)
	f.logger.Debug("form reset")
	return nil
}

// Value returns the current value of field.
func (f *Form) Value(field string) (string, error) {
	if !f.schema.Has(field) {
		return "", &UnknownFieldError{Field: field}
	}
	return f.values[field], nil
}

// Error returns the computed error of field regardless of touch state.
func (f *Form) Error(field string) (string, bool) {
	msg, ok := f.errors[field]
	return msg, ok
}

// VisibleError returns the error of field only when it should be displayed:
// the field was touched or a submit was attempted.
func (f *Form) VisibleError(field string) (string, bool) {
	if !f.visible(field) {
		return "", false
	}
	return f.Error(field)
}

// Touched reports whether field received a blur or submit.
func (f *Form) Touched(field string) bool {
	return f.touched[field]
}

// IsValid reports whether no field currently holds an error.
func (f *Form) IsValid() bool {
	return len(f.errors) == 0
}

// Dirty reports whether any value differs from the initial values.
func (f *Form) Dirty() bool {
	for name, value := range f.values {
		if f.initial[name] != value {
			return true
		}
	}
	return false
}

func (f *Form) visible(field string) bool {
	return f.touched[field] || f.submitAttempted
}

func (f *Form) revalidateAll() {
	for _, field := range f.schema.fields {
		f.revalidate(field.Name)
	}
}

func (f *Form) revalidate(field string) {
	if msg, failed := f.schema.Validate(field, f.values); failed {
		f.errors[field] = msg
		return
	}
	delete(f.errors, field)
}

func (f *Form) restore(values Values) {
	f.values = values.Clone()
	f.touched = make(map[string]bool, len(f.schema.fields))
	f.errors = make(map[string]string)
	f.submitAttempted = false
	f.submitCount = 0
}
