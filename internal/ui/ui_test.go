package ui

import (
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answering(answer bool, err error, seen *string) askFunc {
	return func(p survey.Prompt, response any, _ ...survey.AskOpt) error {
		if c, ok := p.(*survey.Confirm); ok {
			*seen = c.Message
		}
		if err != nil {
			return err
		}
		*(response.(*bool)) = answer
		return nil
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name   string
		answer bool
	}{
		{"yes", true},
		{"no", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			c := NewConfirmer(false)
			c.ask = answering(tt.answer, nil, &seen)

			got, err := c.Confirm("Start the release of 0.28.0.rc1?")
			require.NoError(t, err)
			assert.Equal(t, tt.answer, got)
			assert.Equal(t, "Start the release of 0.28.0.rc1?", seen)
		})
	}
}

func TestConfirm_AssumeYes(t *testing.T) {
	c := NewConfirmer(true)
	c.ask = func(survey.Prompt, any, ...survey.AskOpt) error {
		t.Fatal("prompt shown with assumeYes")
		return nil
	}

	got, err := c.Confirm("Continue?")
	require.NoError(t, err)
	assert.True(t, got)
}

func TestConfirm_Interrupted(t *testing.T) {
	var seen string
	c := NewConfirmer(false)
	c.ask = answering(false, terminal.InterruptErr, &seen)

	got, err := c.Confirm("Continue?")
	assert.False(t, got)
	assert.True(t, errors.Is(err, terminal.InterruptErr))
}
