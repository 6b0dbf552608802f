package url

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

type Flags struct {
	Json bool `flag:"json" help:"print in JSON"`
}

type Finder func(ctx context.Context, client rest.Client, datasetId string) (apidatasets.Detail, error)

type Issuer func(ctx context.Context, client rest.Client, datasetId string) (apidatasets.AccessURL, error)

type Option struct {
	find  Finder
	issue Issuer
}

func WithRunner(find Finder, issue Issuer) func(*Option) *Option {
	return func(o *Option) *Option {
		o.find = find
		o.issue = issue
		return o
	}
}

const ARG_DATASET_ID = "DATASET_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{find: common.FindDataset, issue: RunGenerateAccessURL}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Issue a new upload URL of a dataset.",
		Flags{},
		flarc.Args{
			{Name: ARG_DATASET_ID, Required: true, Help: "Id of the dataset"},
		},
		common.NewTask(Task(option.find, option.issue)),
	)
}

func Task(find Finder, issue Issuer) common.Task[Flags] {
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
		if err := common.Gate(actions.ForDataset(&d), actions.AccessURL); err != nil {
			return err
		}

		u, err := issue(ctx, client, datasetId)
		if err != nil {
			return err
		}
		if cl.Flags().Json {
			return common.PrintJSON(cl.Stdout(), u)
		}
		ui.NewPrinter(cl.Stdout()).Box(
			"Upload URL of "+d.Name+" (expires at "+u.ExpiresAt.Local()+")",
			u.SasUrl,
		)
		return nil
	}
}

func RunGenerateAccessURL(ctx context.Context, client rest.Client, datasetId string) (apidatasets.AccessURL, error) {
	return store.NewDatasets(client, zerolog.Nop()).AccessURL(ctx, datasetId)
}
