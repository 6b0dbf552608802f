package register

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/forms"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/session"
	"github.com/opst/writerid/cmd/wid/store"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	"github.com/opst/writerid/cmd/wid/ui"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Email     string `flag:"email" help:"email address. It is asked when omitted"`
	FirstName string `flag:"first-name" help:"first name. It is asked when omitted"`
	LastName  string `flag:"last-name" help:"last name. It is asked when omitted"`
}

type Option struct {
	prompter ui.Prompter
}

func WithPrompter(p ui.Prompter) func(*Option) *Option {
	return func(o *Option) *Option {
		o.prompter = p
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{prompter: ui.Survey{}}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Create an account.",
		Flags{},
		flarc.Args{},
		common.NewSessionTask(Task(option.prompter)),
		flarc.WithDescription(`
Create an account of the writer identification API.

It does not sign in. Run "wid login" after registration.
`),
	)
}

func Task(prompter ui.Prompter) common.SessionTask[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		sess *session.Session,
		cl flarc.Commandline[Flags],
		_ []any,
	) error {
		flags := cl.Flags()
		ask := func(value *string, message string) error {
			if *value != "" {
				return nil
			}
			v, err := prompter.Input(message, "", true)
			if err != nil {
				return err
			}
			*value = v
			return nil
		}

		form := forms.Register{
			FirstName: flags.FirstName,
			LastName:  flags.LastName,
			Email:     flags.Email,
		}
		if err := ask(&form.FirstName, "First name"); err != nil {
			return err
		}
		if err := ask(&form.LastName, "Last name"); err != nil {
			return err
		}
		if err := ask(&form.Email, "Email"); err != nil {
			return err
		}
		password, err := prompter.Password("Password")
		if err != nil {
			return err
		}
		confirm, err := prompter.Password("Confirm password")
		if err != nil {
			return err
		}
		form.Password = password
		form.ConfirmPassword = confirm

		if err := form.Validate(); err != nil {
			return errors.Join(flarc.ErrUsage, err)
		}

		auth := store.NewAuth(client, sess, zerolog.Nop())
		defer auth.Close()
		if err := auth.Register(ctx, form.Request()); err != nil {
			return fmt.Errorf("%s: %w", auth.Snapshot().Error, err)
		}

		p := ui.NewPrinter(cl.Stdout())
		p.Success("account %s is registered", form.Request().Email)
		p.Info("please sign in with `wid login`")
		return nil
	}
}
