package analyze

import (
	"context"
	"log"

	"github.com/opst/writerid/cmd/wid/actions"
	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/store"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	"github.com/opst/writerid/cmd/wid/ui"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Finder func(ctx context.Context, client rest.Client, datasetId string) (apidatasets.Detail, error)

type Analyzer func(ctx context.Context, client rest.Client, datasetId string) error

type Option struct {
	find    Finder
	analyze Analyzer
}

func WithRunner(find Finder, analyze Analyzer) func(*Option) *Option {
	return func(o *Option) *Option {
		o.find = find
		o.analyze = analyze
		return o
	}
}

const ARG_DATASET_ID = "DATASET_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{find: common.FindDataset, analyze: RunAnalyzeDataset}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Start writer analysis of a dataset.",
		struct{}{},
		flarc.Args{
			{Name: ARG_DATASET_ID, Required: true, Help: "Id of the dataset to be analyzed"},
		},
		common.NewTask(Task(option.find, option.analyze)),
		flarc.WithDescription(`
Start writer analysis of a dataset.

Only datasets in "Created" status can be analyzed.
Analysis runs on the server. Check its progress with "dataset list".
`),
	)
}

func Task(find Finder, analyze Analyzer) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		cl flarc.Commandline[struct{}],
		_ []any,
	) error {
		datasetId := cl.Args()[ARG_DATASET_ID][0]
		d, err := find(ctx, client, datasetId)
		if err != nil {
			return err
		}
		if err := common.Gate(actions.ForDataset(&d), actions.Analyze); err != nil {
			return err
		}

		if err := analyze(ctx, client, datasetId); err != nil {
			return err
		}
		ui.NewPrinter(cl.Stdout()).Success("analysis of dataset %q is started", d.Name)
		return nil
	}
}

func RunAnalyzeDataset(ctx context.Context, client rest.Client, datasetId string) error {
	return store.NewDatasets(client, zerolog.Nop()).Analyze(ctx, datasetId)
}
