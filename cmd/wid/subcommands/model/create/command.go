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
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Dataset string `flag:"dataset" alias:"d" metavar:"DATASET_ID" help:"dataset to train the model on. Default is \"dataset\" in widenv"`
	Json    bool   `flag:"json" help:"print the created model in JSON"`
}

type Creator func(ctx context.Context, client rest.Client, form forms.Model) (apimodels.Detail, error)

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
	option := &Option{create: RunCreateModel}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Create a new model and start its training.",
		Flags{},
		flarc.Args{
			{Name: ARG_NAME, Required: true, Help: "name of the new model"},
		},
		common.NewTask(Task(option.create)),
		flarc.WithDescription(`
Create a new model trained on a dataset.

When --dataset is not passed, "dataset" in widenv is used.
`),
	)
}

func Task(create Creator) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		e env.WidEnv,
		client rest.Client,
		cl flarc.Commandline[Flags],
		_ []any,
	) error {
		flags := cl.Flags()
		form := forms.Model{Name: cl.Args()[ARG_NAME][0], DatasetId: flags.Dataset}
		if form.DatasetId == "" {
			form.DatasetId = e.Dataset
		}
		if err := form.Validate(); err != nil {
			return errors.Join(flarc.ErrUsage, err)
		}

		m, err := create(ctx, client, form)
		if err != nil {
			return err
		}
		if flags.Json {
			return common.PrintJSON(cl.Stdout(), m)
		}
		ui.NewPrinter(cl.Stdout()).Success("model %q is created (id: %s, status: %s)", m.Name, m.Id, m.Status)
		return nil
	}
}

func RunCreateModel(ctx context.Context, client rest.Client, form forms.Model) (apimodels.Detail, error) {
	return store.NewModels(client, zerolog.Nop()).New(ctx, form.Request())
}
