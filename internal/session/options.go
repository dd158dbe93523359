package session

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/uischema"
)

// Option configures a Session.
type Option func(*Session)

// WithLogger routes session and engine events through logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStart begins the session at screen id instead of the registry default.
func WithStart(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.start = id
		}
	}
}

// WithFormOptions supplies extra engine options per screen, e.g. submit
// transformers that depend on which fields are secret.
func WithFormOptions(fn func(uischema.Screen) []form.Option) Option {
	return func(s *Session) {
		s.formOptions = fn
	}
}

// WithSubmitHook is called with every submission that passes the gate.
func WithSubmitHook(fn func(Submission)) Option {
	return func(s *Session) {
		s.onSubmit = fn
	}
}

// WithReceipts overrides the receipt id generator.
func WithReceipts(fn func() string) Option {
	return func(s *Session) {
		if fn != nil {
			s.receipt = fn
		}
	}
}
