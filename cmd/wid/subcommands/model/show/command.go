package show

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/subcommands/common"
	"github.com/opst/writerid/cmd/wid/ui"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Json bool `flag:"json" help:"print in JSON"`
}

type Getter func(ctx context.Context, client rest.Client, modelId string) (apimodels.Detail, error)

type Option struct {
	get Getter
}

func WithRunner(get Getter) func(*Option) *Option {
	return func(o *Option) *Option {
		o.get = get
		return o
	}
}

const ARG_MODEL_ID = "MODEL_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{get: common.GetModel}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Show details of a model.",
		Flags{},
		flarc.Args{
			{Name: ARG_MODEL_ID, Required: true, Help: "Id of the model to be shown"},
		},
		common.NewTask(Task(option.get)),
	)
}

func Task(get Getter) common.Task[Flags] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		cl flarc.Commandline[Flags],
		_ []any,
	) error {
		modelId := cl.Args()[ARG_MODEL_ID][0]
		m, err := get(ctx, client, modelId)
		if err != nil {
			return fmt.Errorf("%w: Model Id:%s", err, modelId)
		}
		if cl.Flags().Json {
			return common.PrintJSON(cl.Stdout(), m)
		}

		Print(ui.NewPrinter(cl.Stdout()), m)
		return nil
	}
}

func Print(p *ui.Printer, m apimodels.Detail) {
	p.Bold("Model %s", m.Name)
	p.Field("Id", m.Id)
	p.Field("Status", ui.Status(m.Status))
	p.Field("Description", ui.OrDash(m.Description))
	p.Field("Algorithm", ui.OrDash(m.Algorithm))
	p.Field("Dataset", ui.OrDash(m.DatasetId))
	if m.TrainedOn != "" {
		p.Field("Trained on", m.TrainedOn)
	}
	p.Field("Accuracy", ui.Ratio(m.Accuracy))
	if m.TrainingProgress != nil {
		p.Field("Progress", ui.Ratio(m.TrainingProgress))
	}
	p.Field("Created", m.CreatedAt.Local())
	p.Field("Updated", m.UpdatedAt.Local())

	if pd := m.PerformanceData; pd != nil {
		p.Println()
		p.Bold("Training")
		p.Field("Backbone", ui.OrDash(pd.Backbone))
		p.Field("Episodes", fmt.Sprintf("%d / %d", pd.ActualEpisodesRun, pd.RequestedEpisodes))
		p.Field("Time", strconv.FormatFloat(pd.Time, 'f', 1, 64)+"s")
		if pd.Error != nil && *pd.Error != "" {
			p.Field("Error", *pd.Error)
		}
	}
}
