// Package session drives the built-in screens from a terminal: every answer
// is a change event, leaving the prompt is the blur event, and the submit
// menu entry runs the engine's submit gate.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/internal/prompt"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/screens"
	"github.com/goliatone/go-formstate/pkg/uischema"
)

const redacted = "********"

// Submission is a submit that passed the gate.
type Submission struct {
	Receipt string      `json:"receipt"`
	Screen  string      `json:"screen"`
	Values  form.Values `json:"values"`
}

// Session walks the registry's screens using a prompt driver.
type Session struct {
	driver      prompt.Driver
	registry    *screens.Registry
	logger      *zap.Logger
	start       string
	formOptions func(uischema.Screen) []form.Option
	onSubmit    func(Submission)
	receipt     func() string

	errorText   func(a ...any) string
	successText func(a ...any) string
	headingText func(a ...any) string
}

// New builds a session over registry. The session starts at the registry's
// start screen unless WithStart says otherwise.
func New(driver prompt.Driver, registry *screens.Registry, opts ...Option) (*Session, error) {
	if driver == nil {
		return nil, errors.New("session: prompt driver is nil")
	}
	if registry == nil {
		return nil, errors.New("session: screen registry is nil")
	}

	s := &Session{
		driver:      driver,
		registry:    registry,
		logger:      zap.NewNop(),
		start:       registry.Start(),
		receipt:     uuid.NewString,
		errorText:   color.New(color.FgRed).SprintFunc(),
		successText: color.New(color.FgGreen).SprintFunc(),
		headingText: color.New(color.Bold).SprintFunc(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if _, err := registry.Screen(s.start); err != nil {
		return nil, fmt.Errorf("session: start screen: %w", err)
	}
	return s, nil
}

type transitionKind int

const (
	transitionPush transitionKind = iota
	transitionBack
	transitionQuit
)

type transition struct {
	kind   transitionKind
	screen string
}

// Run drives screens until the user quits or a back action leaves the first
// screen. prompt.ErrAborted is returned as is.
func (s *Session) Run(ctx context.Context) error {
	if ctx == nil {
		return errors.New("session: context is required")
	}

	stack := []string{s.start}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		next, err := s.runScreen(ctx, current)
		if err != nil {
			return err
		}

		switch next.kind {
		case transitionPush:
			s.logger.Debug("session navigate", zap.String("from", current), zap.String("to", next.screen))
			stack = append(stack, next.screen)
		case transitionBack:
			s.logger.Debug("session back", zap.String("from", current))
			stack = stack[:len(stack)-1]
		case transitionQuit:
			return nil
		}
	}
	return nil
}

func (s *Session) runScreen(ctx context.Context, id string) (transition, error) {
	definition, err := s.registry.Screen(id)
	if err != nil {
		return transition{}, err
	}
	var opts []form.Option
	if s.formOptions != nil {
		opts = s.formOptions(definition)
	}
	opts = append(opts, form.WithLogger(s.logger.With(zap.String("screen", id))))

	f, screen, err := s.registry.NewForm(id, opts...)
	if err != nil {
		return transition{}, err
	}

	if err := s.header(ctx, screen); err != nil {
		return transition{}, err
	}
	if err := s.fillAll(ctx, f, screen); err != nil {
		return transition{}, err
	}

	for {
		action, err := s.menu(ctx, screen)
		if err != nil {
			return transition{}, err
		}

		switch action.kind {
		case actionSubmit:
			next, done, err := s.submit(ctx, f, screen)
			if err != nil || done {
				return next, err
			}
		case actionEdit:
			if err := s.editField(ctx, f, screen); err != nil {
				return transition{}, err
			}
		case actionLink:
			return transition{kind: transitionPush, screen: action.screen}, nil
		case actionQuit:
			return transition{kind: transitionQuit}, nil
		}
	}
}

func (s *Session) header(ctx context.Context, screen uischema.Screen) error {
	if err := s.driver.Info(ctx, s.headingText(screen.Title)); err != nil {
		return err
	}
	if screen.Heading != "" && screen.Heading != screen.Title {
		return s.driver.Info(ctx, screen.Heading)
	}
	return nil
}

func (s *Session) fillAll(ctx context.Context, f *form.Form, screen uischema.Screen) error {
	for _, field := range screen.Fields {
		if err := s.promptField(ctx, f, field); err != nil {
			return err
		}
	}
	return nil
}

// promptField asks for field until it no longer holds an error. Errors of
// fields depending on it are shown once it settles.
func (s *Session) promptField(ctx context.Context, f *form.Form, field uischema.FieldConfig) error {
	for {
		current, err := f.Value(field.Name)
		if err != nil {
			return err
		}

		// an empty answer clears the field, so the current value is only
		// shown as help
		cfg := prompt.InputConfig{Message: field.Prompt()}
		if current != "" && !field.Secret {
			cfg.Help = "current value: " + current
		}
		var answer string
		if field.Secret {
			answer, err = s.driver.Password(ctx, cfg)
		} else {
			answer, err = s.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}

		if err := f.SetValue(field.Name, answer); err != nil {
			return err
		}
		if err := f.MarkTouched(field.Name); err != nil {
			return err
		}

		msg, failed := f.VisibleError(field.Name)
		if !failed {
			break
		}
		if err := s.driver.Info(ctx, s.errorText(msg)); err != nil {
			return err
		}
	}

	for _, dependent := range f.Schema().Dependents(field.Name) {
		if msg, failed := f.VisibleError(dependent); failed {
			line := fmt.Sprintf("%s: %s", f.Label(dependent), msg)
			if err := s.driver.Info(ctx, s.errorText(line)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Session) editField(ctx context.Context, f *form.Form, screen uischema.Screen) error {
	options := make([]string, 0, len(screen.Fields))
	for _, field := range screen.Fields {
		options = append(options, field.Prompt())
	}
	idx, err := s.driver.Select(ctx, prompt.SelectConfig{
		Message: "Field to edit",
		Options: options,
	})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(screen.Fields) {
		return fmt.Errorf("session: field selection %d out of range", idx)
	}
	return s.promptField(ctx, f, screen.Fields[idx])
}

// submit returns done=true when the screen is finished with.
func (s *Session) submit(ctx context.Context, f *form.Form, screen uischema.Screen) (transition, bool, error) {
	var submitted form.Values
	if !f.Submit(func(values form.Values) { submitted = values }) {
		return transition{}, false, s.showErrors(ctx, f, screen)
	}

	sub := Submission{
		Receipt: s.receipt(),
		Screen:  screen.ID,
		Values:  submitted,
	}
	s.logger.Info("screen submitted",
		zap.String("screen", sub.Screen),
		zap.String("receipt", sub.Receipt),
		zap.Any("values", Redact(sub.Values, screen.SecretFields())),
	)
	if s.onSubmit != nil {
		s.onSubmit(sub)
	}
	if msg := screen.OnSuccess.Message; msg != "" {
		if err := s.driver.Info(ctx, s.successText(msg)); err != nil {
			return transition{}, false, err
		}
	}

	switch {
	case screen.OnSuccess.Navigate != "":
		return transition{kind: transitionPush, screen: screen.OnSuccess.Navigate}, true, nil
	case screen.OnSuccess.Back:
		return transition{kind: transitionBack}, true, nil
	default:
		if err := f.Reset(); err != nil {
			return transition{}, false, err
		}
		return transition{}, false, s.fillAll(ctx, f, screen)
	}
}

func (s *Session) showErrors(ctx context.Context, f *form.Form, screen uischema.Screen) error {
	for _, field := range screen.Fields {
		msg, failed := f.VisibleError(field.Name)
		if !failed {
			continue
		}
		line := fmt.Sprintf("%s: %s", f.Label(field.Name), msg)
		if err := s.driver.Info(ctx, s.errorText(line)); err != nil {
			return err
		}
	}
	return nil
}

// Redact returns a copy of values with the secret fields masked.
func Redact(values form.Values, secret []string) form.Values {
	out := values.Clone()
	for _, name := range secret {
		if _, ok := out[name]; ok {
			out[name] = redacted
		}
	}
	return out
}
