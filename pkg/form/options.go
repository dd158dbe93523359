package form

import "go.uber.org/zap"

// SubmitTransformer rewrites the values before the submit gate. Its output
// replaces the form's values and is what the gate validates, so a value a
// transformer empties fails a required rule like any other.
type SubmitTransformer func(Values) Values

// Option configures a Form.
type Option func(*Form)

// WithSubmitTransformer appends fn to the transformers Submit applies, in
// order, before validating.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(f *Form) {
		if fn != nil {
			f.transformers = append(f.transformers, fn)
		}
	}
}

// WithLogger routes debug events through logger. Values are never logged.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}
