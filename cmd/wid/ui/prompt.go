package ui

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrCanceled is returned when the operator interrupts a prompt.
var ErrCanceled = errors.New("canceled")

// Prompter asks the operator.
type Prompter interface {
	Confirm(message string, def bool) (bool, error)

	// Input asks a line. required rejects an empty answer.
	Input(message string, def string, required bool) (string, error)

	Password(message string) (string, error)

	// Select returns one of options.
	Select(message string, options []string, def string) (string, error)

	// MultiSelect returns at least atLeast of options.
	MultiSelect(message string, options []string, atLeast int) ([]string, error)
}

// Survey is a Prompter on the terminal.
type Survey struct{}

var _ Prompter = Survey{}

func asked(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrCanceled
	}
	return err
}

func (Survey) Confirm(message string, def bool) (bool, error) {
	v := false
	err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &v)
	return v, asked(err)
}

func (Survey) Input(message string, def string, required bool) (string, error) {
	v := ""
	opts := []survey.AskOpt{}
	if required {
		opts = append(opts, survey.WithValidator(survey.Required))
	}
	err := survey.AskOne(&survey.Input{Message: message, Default: def}, &v, opts...)
	return v, asked(err)
}

func (Survey) Password(message string) (string, error) {
	v := ""
	err := survey.AskOne(&survey.Password{Message: message}, &v, survey.WithValidator(survey.Required))
	return v, asked(err)
}

func (Survey) Select(message string, options []string, def string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("%s: no options", message)
	}
	v := ""
	q := &survey.Select{Message: message, Options: options}
	if def != "" {
		q.Default = def
	}
	err := survey.AskOne(q, &v)
	return v, asked(err)
}

func (Survey) MultiSelect(message string, options []string, atLeast int) ([]string, error) {
	if len(options) < atLeast {
		return nil, fmt.Errorf("%s: needs %d options at least, but there are %d", message, atLeast, len(options))
	}
	v := []string{}
	err := survey.AskOne(
		&survey.MultiSelect{Message: message, Options: options},
		&v,
		survey.WithValidator(survey.MinItems(atLeast)),
	)
	return v, asked(err)
}
