package show

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
	"github.com/opst/writerid/pkg/api/types/status"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Json bool `flag:"json" help:"print in JSON"`
}

// Shown is a dataset with its analysis results, if it is analyzed.
type Shown struct {
	Dataset  apidatasets.Detail           `json:"dataset"`
	Analysis *apidatasets.AnalysisResults `json:"analysis,omitempty"`
}

type Shower func(ctx context.Context, client rest.Client, datasetId string) (Shown, error)

type Option struct {
	show Shower
}

func WithRunner(show Shower) func(*Option) *Option {
	return func(o *Option) *Option {
		o.show = show
		return o
	}
}

const ARG_DATASET_ID = "DATASET_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{show: RunShowDataset}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Show details of a dataset.",
		Flags{},
		flarc.Args{
			{Name: ARG_DATASET_ID, Required: true, Help: "Id of the dataset to be shown"},
		},
		common.NewTask(Task(option.show)),
		flarc.WithDescription(`
Show details of a dataset.

When the dataset is analyzed (Completed), its analysis results are shown too.
`),
	)
}

func Task(show Shower) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		cl flarc.Commandline[Flags],
		_ []any,
	) error {
		datasetId := cl.Args()[ARG_DATASET_ID][0]
		shown, err := show(ctx, client, datasetId)
		if err != nil {
			return fmt.Errorf("%w: Dataset Id:%s", err, datasetId)
		}
		if cl.Flags().Json {
			return common.PrintJSON(cl.Stdout(), shown)
		}

		Print(ui.NewPrinter(cl.Stdout()), shown)
		return nil
	}
}

// Print writes the dataset, and its analysis results if any.
func Print(p *ui.Printer, shown Shown) {
	d := shown.Dataset
	p.Bold("Dataset %s", d.Name)
	p.Field("Id", d.Id)
	p.Field("Status", ui.Status(d.Status))
	p.Field("Files", fmt.Sprint(d.FileCount))
	p.Field("Size", ui.FileSize(d.FileSize))
	p.Field("Created", d.CreatedAt.Local())
	p.Field("Updated", d.UpdatedAt.Local())

	if a := shown.Analysis; a != nil {
		p.Println()
		p.Bold("Analysis results")
		p.Field("Status", ui.OrDash(a.Status))
		p.Field("Completed", a.CompletedAt.Local())
		if a.Error != "" {
			p.Field("Error", a.Error)
		}
		if 0 < len(a.Results) {
			p.Println(string(a.Results))
		}
	}
}

func RunShowDataset(ctx context.Context, client rest.Client, datasetId string) (Shown, error) {
	d, err := common.FindDataset(ctx, client, datasetId)
	if err != nil {
		return Shown{}, err
	}
	shown := Shown{Dataset: d}
	if d.Status != status.Completed {
		return shown, nil
	}

	a, err := store.NewDatasets(client, zerolog.Nop()).AnalysisResults(ctx, datasetId)
	if err != nil {
		return Shown{}, err
	}
	shown.Analysis = &a
	return shown, nil
}
