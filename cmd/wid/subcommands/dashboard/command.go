package dashboard

import (
	"context"
	"fmt"
	"log"

	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/store"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	"github.com/opst/writerid/cmd/wid/ui"
	apidashboard "github.com/opst/writerid/pkg/api/types/dashboard"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Json bool `flag:"json" help:"print in JSON"`
}

type Fetcher func(ctx context.Context, client rest.Client) (apidashboard.Stats, error)

type Option struct {
	fetch Fetcher
}

func WithRunner(fetch Fetcher) func(*Option) *Option {
	return func(o *Option) *Option {
		o.fetch = fetch
		return o
	}
}

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{fetch: RunFetchStats}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Show counters of tasks, datasets and models.",
		Flags{},
		flarc.Args{},
		common.NewTask(Task(option.fetch)),
	)
}

func Task(fetch Fetcher) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		cl flarc.Commandline[Flags],
		_ []any,
	) error {
		stats, err := fetch(ctx, client)
		if err != nil {
			return err
		}
		if cl.Flags().Json {
			return common.PrintJSON(cl.Stdout(), stats)
		}
		Print(ui.NewPrinter(cl.Stdout()), stats)
		return nil
	}
}

// Print writes the counters.
func Print(p *ui.Printer, stats apidashboard.Stats) {
	p.Bold("Dashboard")
	p.Field("Tasks", fmt.Sprintf(
		"%d (completed: %d, running: %d)", stats.TotalTasks, stats.CompletedTasks, stats.RunningTasks,
	))
	p.Field("Datasets", fmt.Sprint(stats.TotalDatasets))
	p.Field("Models", fmt.Sprint(stats.TotalModels))
}

func RunFetchStats(ctx context.Context, client rest.Client) (apidashboard.Stats, error) {
	d := store.NewDashboard(client, zerolog.Nop())
	if err := d.Fetch(ctx); err != nil {
		return apidashboard.Stats{}, err
	}
	return d.Snapshot().Stats, nil
}
