package rm

import (
	"context"
	"fmt"
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

type Flags struct {
	Yes bool `flag:"yes" alias:"y" help:"remove without confirmation"`
}

type Finder func(ctx context.Context, client rest.Client, datasetId string) (apidatasets.Detail, error)

type Remover func(ctx context.Context, client rest.Client, datasetId string) error

type Option struct {
	find     Finder
	remove   Remover
	prompter ui.Prompter
}

func WithRunner(find Finder, remove Remover) func(*Option) *Option {
	return func(o *Option) *Option {
		o.find = find
		o.remove = remove
		return o
	}
}

func WithPrompter(p ui.Prompter) func(*Option) *Option {
	return func(o *Option) *Option {
		o.prompter = p
		return o
	}
}

const ARG_DATASET_ID = "DATASET_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{find: common.FindDataset, remove: RunDeleteDataset, prompter: ui.Survey{}}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Delete a dataset.",
		Flags{},
		flarc.Args{
			{Name: ARG_DATASET_ID, Required: true, Help: "Id of the dataset to be deleted."},
		},
		common.NewTask(Task(option.find, option.remove, option.prompter)),
		flarc.WithDescription(`
Delete a dataset. Datasets in "Processing" status can not be deleted.

It asks confirmation unless --yes is passed.
`),
	)
}

func Task(find Finder, remove Remover, prompter ui.Prompter) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		cl flarc.Commandline[Flags],
		_ []any,
	) error {
		datasetId := cl.Args()[ARG_DATASET_ID][0]
		d, err := find(ctx, client, datasetId)
		if err != nil {
			return err
		}
		if err := common.Gate(actions.ForDataset(&d), actions.Remove); err != nil {
			return err
		}

		ok, err := common.Confirm(
			prompter,
			fmt.Sprintf("Delete dataset %q (%s)? This can not be undone.", d.Name, d.Id),
			cl.Flags().Yes,
		)
		if err != nil {
			return err
		}
		if !ok {
			logger.Println("canceled.")
			return nil
		}

		if err := remove(ctx, client, datasetId); err != nil {
			return err
		}
		logger.Printf("deleted Dataset Id:%v", datasetId)
		return nil
	}
}

func RunDeleteDataset(ctx context.Context, client rest.Client, datasetId string) error {
	return store.NewDatasets(client, zerolog.Nop()).Remove(ctx, datasetId)
}
