// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ErrNoOptions is returned when Choose is given nothing to choose from.
var ErrNoOptions = errors.New("no options to choose from")

// Prompter asks the user to pick a single option. It satisfies
// locate.Prompter.
type Prompter struct {
	Config Config
	// Height limits the number of visible options (0 for auto).
	Height int
}

// NewPrompter creates a Prompter with the given configuration.
func NewPrompter(cfg Config) *Prompter {
	return &Prompter{Config: cfg}
}

// Choose shows title above options and returns the selected option. Aborting
// the prompt (Ctrl+C, Esc) returns an error wrapping huh.ErrUserAborted.
func (p *Prompter) Choose(ctx context.Context, title string, options []string) (string, error) {
	form, result, err := p.newSelectForm(title, options)
	if err != nil {
		return "", err
	}
	if err := form.RunWithContext(ctx); err != nil {
		return "", fmt.Errorf("choose: %w", err)
	}
	return *result, nil
}

func (p *Prompter) newSelectForm(title string, options []string) (*huh.Form, *string, error) {
	if len(options) == 0 {
		return nil, nil, ErrNoOptions
	}

	result := new(string)
	sel := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(result)
	if p.Height > 0 {
		sel = sel.Height(p.Height)
	}

	form := huh.NewForm(huh.NewGroup(sel)).
		WithTheme(huhTheme(p.Config.Theme)).
		WithAccessible(p.Config.Accessible).
		WithShowHelp(!p.Config.Accessible)
	if p.Config.Input != nil {
		form = form.WithInput(p.Config.Input)
	}
	if p.Config.Output != nil {
		form = form.WithOutput(p.Config.Output)
	}
	return form, result, nil
}
