package session

import (
	"context"
	"fmt"

	"github.com/goliatone/go-formstate/internal/prompt"
	"github.com/goliatone/go-formstate/pkg/uischema"
)

type actionKind int

const (
	actionSubmit actionKind = iota
	actionEdit
	actionLink
	actionQuit
)

type menuAction struct {
	kind   actionKind
	screen string
	label  string
}

const (
	editLabel = "Edit a field"
	quitLabel = "Quit"
)

// menuActions lists the choices offered once every field was prompted:
// submit, edit, the screen links, quit.
func menuActions(screen uischema.Screen) []menuAction {
	actions := []menuAction{
		{kind: actionSubmit, label: screen.SubmitLabel},
		{kind: actionEdit, label: editLabel},
	}
	for _, link := range screen.Links {
		actions = append(actions, menuAction{kind: actionLink, screen: link.Screen, label: link.Label})
	}
	return append(actions, menuAction{kind: actionQuit, label: quitLabel})
}

func (s *Session) menu(ctx context.Context, screen uischema.Screen) (menuAction, error) {
	actions := menuActions(screen)
	options := make([]string, len(actions))
	for i, action := range actions {
		options[i] = action.label
	}

	idx, err := s.driver.Select(ctx, prompt.SelectConfig{
		Message: screen.Title,
		Options: options,
	})
	if err != nil {
		return menuAction{}, err
	}
	if idx < 0 || idx >= len(actions) {
		return menuAction{}, fmt.Errorf("session: menu selection %d out of range", idx)
	}
	return actions[idx], nil
}
