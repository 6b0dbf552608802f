package list

import (
	"context"
	"fmt"
	"log"

	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/store"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	"github.com/opst/writerid/cmd/wid/ui"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Json bool `flag:"json" help:"print models in JSON"`
}

type Lister func(ctx context.Context, client rest.Client) (store.State[apimodels.Detail], error)

type Option struct {
	list Lister
}

func WithRunner(list Lister) func(*Option) *Option {
	return func(o *Option) *Option {
		o.list = list
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{list: RunListModels}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"List models.",
		Flags{},
		flarc.Args{},
		common.NewTask(Task(option.list)),
	)
}

func Task(list Lister) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		cl flarc.Commandline[Flags],
		_ []any,
	) error {
		state, err := list(ctx, client)
		if err != nil {
			return err
		}
		if cl.Flags().Json {
			return common.PrintJSON(cl.Stdout(), state.Items)
		}

		if err := Table(state.Items).Render(cl.Stdout(), "No models found"); err != nil {
			return err
		}
		if 0 < len(state.Items) {
			fmt.Fprintf(cl.Stdout(), "\nTotal: %d\n", state.Total)
		}
		return nil
	}
}

func Table(items []apimodels.Detail) *ui.Table {
	tbl := ui.NewTable("ID", "NAME", "STATUS", "ACCURACY", "DATASET", "CREATED")
	for _, m := range items {
		dataset := m.TrainedOn
		if dataset == "" {
			dataset = m.DatasetId
		}
		tbl.Append(
			m.Id, m.Name, ui.Status(m.Status),
			ui.Ratio(m.Accuracy), ui.OrDash(dataset), m.CreatedAt.Local(),
		)
	}
	return tbl
}

func RunListModels(ctx context.Context, client rest.Client) (store.State[apimodels.Detail], error) {
	models := store.NewModels(client, zerolog.Nop())
	if err := models.Refresh(ctx); err != nil {
		return store.State[apimodels.Detail]{}, err
	}
	return models.Snapshot(), nil
}
