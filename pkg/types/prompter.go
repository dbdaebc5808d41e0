package types

import "context"

// Prompter is the operator-interaction capability injected into every
// component that may need a decision mid-import. Implementations live
// in pkg/prompt; tests use a scripted prompter so the merge core runs
// headless.
type Prompter interface {
	// Confirm asks a yes/no question and returns the answer.
	// defaultYes is returned when the operator just presses enter.
	Confirm(ctx context.Context, prompt string, defaultYes bool) (bool, error)

	// Input asks for a line of text, offering defaultValue as the
	// pre-filled answer.
	Input(ctx context.Context, prompt, defaultValue string) (string, error)

	// Select asks the operator to pick one of options.
	Select(ctx context.Context, prompt string, options []string) (string, error)
}
