// Package ui holds the interactive prompts shown during a release.
package ui

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

type askFunc func(p survey.Prompt, response any, opts ...survey.AskOpt) error

// Confirmer asks yes/no questions on the terminal.
type Confirmer struct {
	assumeYes bool
	ask       askFunc
}

// NewConfirmer creates a confirmer. With assumeYes every question is answered
// yes without prompting.
func NewConfirmer(assumeYes bool) *Confirmer {
	return &Confirmer{
		assumeYes: assumeYes,
		ask:       survey.AskOne,
	}
}

// Confirm asks message and reports the answer. The prompt defaults to no.
func (c *Confirmer) Confirm(message string) (bool, error) {
	if c.assumeYes {
		return true, nil
	}

	answer := false
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := c.ask(prompt, &answer); err != nil {
		return false, fmt.Errorf("failed to get confirmation: %w", err)
	}
	return answer, nil
}
