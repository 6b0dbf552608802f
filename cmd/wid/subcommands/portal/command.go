package portal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/portal"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/session"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	"github.com/opst/writerid/cmd/wid/subcommands/logger"
	"github.com/opst/writerid/cmd/wid/ui"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Page string `flag:"page" alias:"p" metavar:"PAGE" help:"page to start with: dashboard, datasets, models or tasks"`
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
		"Open the interactive portal.",
		Flags{Page: string(portal.Dashboard)},
		flarc.Args{},
		common.NewSessionTask(Task(option.prompter)),
		flarc.WithDescription(`
Open the interactive portal.

Pages are switched from the menu. Select a dataset, a model or a task,
then choose an action from its menu. Actions not allowed in the current
status are shown as disabled.

When the session expires, or "wid logout" is run in another terminal,
the portal goes back to the sign in page.
`),
	)
}

func Task(prompter ui.Prompter) common.SessionTask[Flags] {
	return func(
		ctx context.Context,
		l *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		sess *session.Session,
		cl flarc.Commandline[Flags],
		_ []any,
	) error {
		start := portal.Route(cl.Flags().Page)
		if !slices.Contains(portal.Routes, start) {
			return errors.Join(flarc.ErrUsage, fmt.Errorf("unknown page: %s", start))
		}

		p := portal.New(
			client, sess, prompter, cl.Stdout(),
			portal.WithLogger(logger.Trace(cl.Stderr(), os.Getenv(common.EnvLogLevel))),
		)
		if err := p.Run(ctx, portal.Navigation{To: start}); err != nil {
			return err
		}
		l.Println("bye.")
		return nil
	}
}
