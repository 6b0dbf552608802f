package results

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
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Json bool `flag:"json" help:"print in JSON"`
}

type Getter func(ctx context.Context, client rest.Client, modelId string) (apimodels.Detail, error)

type Fetcher func(ctx context.Context, client rest.Client, modelId string) (apimodels.PerformanceData, error)

type Option struct {
	get   Getter
	fetch Fetcher
}

func WithRunner(get Getter, fetch Fetcher) func(*Option) *Option {
	return func(o *Option) *Option {
		o.get = get
		o.fetch = fetch
		return o
	}
}

const ARG_MODEL_ID = "MODEL_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{get: common.GetModel, fetch: RunGetTrainingResults}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Show training results of a model.",
		Flags{},
		flarc.Args{
			{Name: ARG_MODEL_ID, Required: true, Help: "Id of the trained model"},
		},
		common.NewTask(Task(option.get, option.fetch)),
		flarc.WithDescription(`
Show metrics and the confusion matrix of a trained model.

Only models in "Completed" status have training results.
`),
	)
}

func Task(get Getter, fetch Fetcher) common.Task[Flags] {
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
			return err
		}
		if err := common.Gate(actions.ForModel(&m, false), actions.Results); err != nil {
			return err
		}

		pd, err := fetch(ctx, client, modelId)
		if err != nil {
			return err
		}
		if cl.Flags().Json {
			return common.PrintJSON(cl.Stdout(), pd)
		}

		return Print(ui.NewPrinter(cl.Stdout()), m, pd)
	}
}

// Print writes metrics and the confusion matrix of the model.
func Print(p *ui.Printer, m apimodels.Detail, pd apimodels.PerformanceData) error {
	p.Bold("Training results of %s", m.Name)
	if pd.Error != nil && *pd.Error != "" {
		p.Error("training failed: %s", *pd.Error)
		return nil
	}
	p.Field("Accuracy", ui.Ratio(&pd.Accuracy))
	p.Field("F1 score", ui.Ratio(&pd.F1Score))
	p.Field("Precision", ui.Ratio(&pd.Precision))
	p.Field("Recall", ui.Ratio(&pd.Recall))
	p.Field("Best val.", ui.Ratio(&pd.BestValAccuracy))
	p.Field("Episodes", fmt.Sprintf(
		"%d / %d (optimal: %d)", pd.ActualEpisodesRun, pd.RequestedEpisodes, pd.OptimalValEpisode,
	))
	p.Field("Backbone", ui.OrDash(pd.Backbone))

	if len(pd.ConfusionMatrix) == 0 {
		return nil
	}
	p.Println()
	p.Bold("Confusion matrix (actual \\ predicted)")
	return ui.Matrix(p.Writer(), pd.ConfusionMatrix)
}

func RunGetTrainingResults(ctx context.Context, client rest.Client, modelId string) (apimodels.PerformanceData, error) {
	return store.NewModels(client, zerolog.Nop()).TrainingResults(ctx, modelId)
}
