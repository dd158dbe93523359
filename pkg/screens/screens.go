// Package screens exposes the built-in sign-in, sign-up and employee-form
// screens and builds a fresh validation engine for each screen session.
package screens

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/uischema"
)

// Built-in screen ids.
const (
	SignIn       = "sign-in"
	SignUp       = "sign-up"
	EmployeeForm = "employee-form"
)

// ErrUnknownScreen is returned for ids the registry does not hold.
var ErrUnknownScreen = errors.New("screens: unknown screen")

// Registry resolves screen definitions by id.
type Registry struct {
	store *uischema.Store
	start string
}

// Default returns the registry of the embedded screens.
func Default() (*Registry, error) {
	store, err := uischema.LoadFS(uischema.EmbeddedFS())
	if err != nil {
		return nil, fmt.Errorf("screens: load embedded definitions: %w", err)
	}
	return New(store)
}

// WithOverrides returns the embedded screens overridden by the definitions
// found in fsys. A nil fsys yields the defaults.
func WithOverrides(fsys fs.FS) (*Registry, error) {
	base, err := uischema.LoadFS(uischema.EmbeddedFS())
	if err != nil {
		return nil, fmt.Errorf("screens: load embedded definitions: %w", err)
	}
	extra, err := uischema.LoadFS(fsys)
	if err != nil {
		return nil, fmt.Errorf("screens: load overrides: %w", err)
	}
	return New(base.Merge(extra))
}

// New wraps store after checking that every navigation target exists.
func New(store *uischema.Store) (*Registry, error) {
	if store.Empty() {
		return nil, errors.New("screens: no screen definitions")
	}
	for _, id := range store.IDs() {
		screen, _ := store.Screen(id)
		if next := screen.OnSuccess.Navigate; next != "" {
			if _, ok := store.Screen(next); !ok {
				return nil, fmt.Errorf("%w %q (onSuccess of %q)", ErrUnknownScreen, next, id)
			}
		}
		for _, link := range screen.Links {
			if _, ok := store.Screen(link.Screen); !ok {
				return nil, fmt.Errorf("%w %q (link on %q)", ErrUnknownScreen, link.Screen, id)
			}
		}
	}

	start := SignIn
	if _, ok := store.Screen(start); !ok {
		start = store.IDs()[0]
	}
	return &Registry{store: store, start: start}, nil
}

// Start returns the id of the first screen a session opens.
func (r *Registry) Start() string {
	return r.start
}

// IDs lists the screen ids in sorted order.
func (r *Registry) IDs() []string {
	return r.store.IDs()
}

// Screen returns the definition for id.
func (r *Registry) Screen(id string) (uischema.Screen, error) {
	screen, ok := r.store.Screen(id)
	if !ok {
		return uischema.Screen{}, fmt.Errorf("%w %q", ErrUnknownScreen, id)
	}
	return screen, nil
}

// Screens returns every definition, sorted by id.
func (r *Registry) Screens() []uischema.Screen {
	ids := r.store.IDs()
	out := make([]uischema.Screen, 0, len(ids))
	for _, id := range ids {
		screen, _ := r.store.Screen(id)
		out = append(out, screen)
	}
	return out
}

// NewForm builds a fresh engine for id with every field empty.
func (r *Registry) NewForm(id string, opts ...form.Option) (*form.Form, uischema.Screen, error) {
	screen, err := r.Screen(id)
	if err != nil {
		return nil, uischema.Screen{}, err
	}
	f, err := form.New(screen.Schema, form.Empty(screen.Schema), opts...)
	if err != nil {
		return nil, uischema.Screen{}, fmt.Errorf("screens: %s: %w", id, err)
	}
	return f, screen, nil
}
