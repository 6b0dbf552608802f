package create

import (
	"context"
	"errors"
	"log"

	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/forms"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/store"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	"github.com/opst/writerid/cmd/wid/ui"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Json bool `flag:"json" help:"print the created dataset in JSON"`
}

type Creator func(ctx context.Context, client rest.Client, form forms.Dataset) (apidatasets.Detail, error)

type Option struct {
	create Creator
}

func WithRunner(create Creator) func(*Option) *Option {
	return func(o *Option) *Option {
		o.create = create
		return o
	}
}

const ARG_NAME = "NAME"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{create: RunCreateDataset}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Create a new dataset.",
		Flags{},
		flarc.Args{
			{Name: ARG_NAME, Required: true, Help: "name of the new dataset"},
		},
		common.NewTask(Task(option.create)),
		flarc.WithDescription(`
Create a new dataset, and print the upload URL for its files.

The upload URL is shown only once. Use "dataset url" to issue a new one.
`),
	)
}

func Task(create Creator) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		cl flarc.Commandline[Flags],
		_ []any,
	) error {
		form := forms.Dataset{Name: cl.Args()[ARG_NAME][0]}
		if err := form.Validate(); err != nil {
			return errors.Join(flarc.ErrUsage, err)
		}

		d, err := create(ctx, client, form)
		if err != nil {
			return err
		}

		if cl.Flags().Json {
			return common.PrintJSON(cl.Stdout(), d)
		}
		p := ui.NewPrinter(cl.Stdout())
		p.Success("dataset %q is created (id: %s)", d.Name, d.Id)
		if d.SasUrl != "" {
			p.Box("Upload URL (shown only once)", d.SasUrl)
		} else {
			p.Warning("the server did not return an upload URL. Try `dataset url %s`", d.Id)
		}
		return nil
	}
}

func RunCreateDataset(ctx context.Context, client rest.Client, form forms.Dataset) (apidatasets.Detail, error) {
	return store.NewDatasets(client, zerolog.Nop()).New(ctx, form.Request().Name)
}
