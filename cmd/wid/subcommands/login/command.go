package login

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

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
	Username      string `flag:"username" alias:"u" help:"username. It is asked when omitted"`
	PasswordStdin bool   `flag:"password-stdin" help:"read the password from the first line of stdin"`
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
		"Sign in to the writer identification API.",
		Flags{},
		flarc.Args{},
		common.NewSessionTask(Task(option.prompter)),
		flarc.WithDescription(`
Sign in, and keep the session for later commands.

The password is asked interactively, unless --password-stdin is passed.
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

		username := flags.Username
		if username == "" {
			u, err := prompter.Input("Username", "", true)
			if err != nil {
				return err
			}
			username = u
		}

		var password string
		if flags.PasswordStdin {
			sc := bufio.NewScanner(cl.Stdin())
			if sc.Scan() {
				password = strings.TrimRight(sc.Text(), "\r")
			}
			if err := sc.Err(); err != nil {
				return err
			}
		} else {
			p, err := prompter.Password("Password")
			if err != nil {
				return err
			}
			password = p
		}

		form := forms.Login{Username: username, Password: password}
		if err := form.Validate(); err != nil {
			return errors.Join(flarc.ErrUsage, err)
		}

		auth := store.NewAuth(client, sess, zerolog.Nop())
		defer auth.Close()
		if err := auth.Login(ctx, form.Request()); err != nil {
			return fmt.Errorf("%s: %w", auth.Snapshot().Error, err)
		}

		st := auth.Snapshot()
		ui.NewPrinter(cl.Stdout()).Success("signed in as %s (%s)", st.User.DisplayName(), st.User.Email)
		return nil
	}
}
