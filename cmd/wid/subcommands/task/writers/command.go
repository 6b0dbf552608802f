package writers

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
	Json bool `flag:"json" help:"print in JSON"`
}

type Lister func(ctx context.Context, client rest.Client, datasetId string) (apitasks.DatasetAnalysis, error)

type Option struct {
	list Lister
}

func WithRunner(list Lister) func(*Option) *Option {
	return func(o *Option) *Option {
		o.list = list
		return o
	}
}

const ARG_DATASET_ID = "DATASET_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{list: RunListWriters}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"List writers which can be chosen for tasks.",
		Flags{},
		flarc.Args{
			{Name: ARG_DATASET_ID, Required: true, Help: "Id of an analyzed dataset"},
		},
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
		a, err := list(ctx, client, cl.Args()[ARG_DATASET_ID][0])
		if err != nil {
			return err
		}
		if cl.Flags().Json {
			return common.PrintJSON(cl.Stdout(), a)
		}

		tbl := ui.NewTable("#", "WRITER", "SAMPLES")
		for i, w := range a.Writers {
			samples := "-"
			if 0 < w.SampleCount {
				samples = fmt.Sprint(w.SampleCount)
			}
			tbl.Append(fmt.Sprint(i+1), w.WriterName, samples)
		}
		return tbl.Render(cl.Stdout(), "No writers found. Is the dataset analyzed?")
	}
}

func RunListWriters(ctx context.Context, client rest.Client, datasetId string) (apitasks.DatasetAnalysis, error) {
	return store.NewTasks(client, zerolog.Nop()).Writers(ctx, datasetId)
}
