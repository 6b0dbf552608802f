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
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Json bool `flag:"json" help:"print tasks in JSON"`
}

type Lister func(ctx context.Context, client rest.Client) (store.State[apitasks.Detail], error)

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
	option := &Option{list: RunListTasks}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"List identification tasks.",
		Flags{},
		flarc.Args{},
		common.NewTask(Task(option.list)),
	)
}

func orId(name string, id apitasks.Ref) string {
	if name != "" {
		return name
	}
	return ui.OrDash(string(id))
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

		if err := Table(state.Items).Render(cl.Stdout(), "No tasks found"); err != nil {
			return err
		}
		if 0 < len(state.Items) {
			fmt.Fprintf(cl.Stdout(), "\nTotal: %d\n", state.Total)
		}
		return nil
	}
}

// Table lays out tasks, one per row. Names are preferred to ids.
func Table(items []apitasks.Detail) *ui.Table {
	tbl := ui.NewTable("ID", "NAME", "STATUS", "DATASET", "MODEL", "WRITER", "CREATED")
	for _, t := range items {
		tbl.Append(
			t.Id, t.Name, ui.Status(t.Status),
			orId(t.DatasetName, t.DatasetId), orId(t.ModelName, t.ModelId),
			ui.OrDash(t.WriterIdentified), t.CreatedAt.Local(),
		)
	}
	return tbl
}

func RunListTasks(ctx context.Context, client rest.Client) (store.State[apitasks.Detail], error) {
	tasks := store.NewTasks(client, zerolog.Nop())
	if err := tasks.Refresh(ctx); err != nil {
		return store.State[apitasks.Detail]{}, err
	}
	return tasks.Snapshot(), nil
}
