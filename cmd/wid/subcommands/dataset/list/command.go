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
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Json bool `flag:"json" help:"print datasets in JSON"`
}

type Lister func(ctx context.Context, client rest.Client) (store.State[apidatasets.Detail], error)

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
	option := &Option{list: RunListDatasets}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"List datasets.",
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

		if err := Table(state.Items).Render(cl.Stdout(), "No datasets found"); err != nil {
			return err
		}
		if 0 < len(state.Items) {
			fmt.Fprintf(cl.Stdout(), "\nTotal: %d\n", state.Total)
		}
		return nil
	}
}

// Table lays out datasets, one per row.
func Table(items []apidatasets.Detail) *ui.Table {
	tbl := ui.NewTable("ID", "NAME", "STATUS", "FILES", "SIZE", "CREATED")
	for _, d := range items {
		tbl.Append(
			d.Id, d.Name, ui.Status(d.Status),
			fmt.Sprint(d.FileCount), ui.FileSize(d.FileSize), d.CreatedAt.Local(),
		)
	}
	return tbl
}

func RunListDatasets(ctx context.Context, client rest.Client) (store.State[apidatasets.Detail], error) {
	datasets := store.NewDatasets(client, zerolog.Nop())
	if err := datasets.Refresh(ctx); err != nil {
		return store.State[apidatasets.Detail]{}, err
	}
	return datasets.Snapshot(), nil
}
