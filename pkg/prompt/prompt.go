// Package prompt implements the operator prompts. Terminal asks on the
// controlling terminal; Auto answers every prompt with its default so
// imports can run unattended.
package prompt

import (
	"context"

	"github.com/pterm/pterm"

	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/errors"
	"github.com/KJ7LNW/Import-LIB-KiCad-Plugin/pkg/types"
)

// Terminal prompts interactively on the terminal.
type Terminal struct{}

var _ types.Prompter = (*Terminal)(nil)

// NewTerminal returns the interactive prompter.
func NewTerminal() *Terminal {
	return &Terminal{}
}

// Confirm asks a yes/no question.
func (t *Terminal) Confirm(ctx context.Context, prompt string, defaultYes bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return pterm.DefaultInteractiveConfirm.WithDefaultValue(defaultYes).Show(prompt)
}

// Input asks for a line of text, offering defaultValue as the answer.
func (t *Terminal) Input(ctx context.Context, prompt, defaultValue string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return pterm.DefaultInteractiveTextInput.WithDefaultValue(defaultValue).Show(prompt)
}

// Select asks the operator to pick one of options.
func (t *Terminal) Select(ctx context.Context, prompt string, options []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(options) == 0 {
		return "", errors.New(errors.ErrPromptFailed, "nothing to select from")
	}
	return pterm.DefaultInteractiveSelect.WithOptions(options).Show(prompt)
}

// Auto answers every prompt with its default, for unattended runs.
type Auto struct{}

var _ types.Prompter = (*Auto)(nil)

// NewAuto returns the non-interactive prompter.
func NewAuto() *Auto {
	return &Auto{}
}

// Confirm returns the prompt's default answer.
func (a *Auto) Confirm(ctx context.Context, prompt string, defaultYes bool) (bool, error) {
	return defaultYes, ctx.Err()
}

// Input returns the prompt's default value.
func (a *Auto) Input(ctx context.Context, prompt, defaultValue string) (string, error) {
	return defaultValue, ctx.Err()
}

// Select returns the first option. Unattended runs have nobody to pick
// a better one.
func (a *Auto) Select(ctx context.Context, prompt string, options []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(options) == 0 {
		return "", errors.New(errors.ErrPromptFailed, "nothing to select from")
	}
	return options[0], nil
}
