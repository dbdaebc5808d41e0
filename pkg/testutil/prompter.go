package testutil

import "context"

// ScriptPrompter is a types.Prompter that plays back canned answers and
// records every prompt it was asked. When a script runs out, Confirm
// and Input fall back to their defaults, matching the real prompter's
// behavior on a plain enter.
type ScriptPrompter struct {
	Confirms []bool
	Inputs   []string
	Selects  []string

	ConfirmPrompts []string
	InputPrompts   []string
	SelectPrompts  []string
}

// Confirm pops the next scripted answer, or returns defaultYes
func (p *ScriptPrompter) Confirm(_ context.Context, prompt string, defaultYes bool) (bool, error) {
	p.ConfirmPrompts = append(p.ConfirmPrompts, prompt)
	if len(p.Confirms) == 0 {
		return defaultYes, nil
	}
	answer := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return answer, nil
}

// Input pops the next scripted answer, or returns defaultValue
func (p *ScriptPrompter) Input(_ context.Context, prompt, defaultValue string) (string, error) {
	p.InputPrompts = append(p.InputPrompts, prompt)
	if len(p.Inputs) == 0 {
		return defaultValue, nil
	}
	answer := p.Inputs[0]
	p.Inputs = p.Inputs[1:]
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

// Select pops the next scripted answer, or returns the first option
func (p *ScriptPrompter) Select(_ context.Context, prompt string, options []string) (string, error) {
	p.SelectPrompts = append(p.SelectPrompts, prompt)
	if len(p.Selects) == 0 {
		if len(options) == 0 {
			return "", nil
		}
		return options[0], nil
	}
	answer := p.Selects[0]
	p.Selects = p.Selects[1:]
	return answer, nil
}
