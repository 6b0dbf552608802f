package retrain

import (
	"context"
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

type Getter func(ctx context.Context, client rest.Client, modelId string) (apimodels.Detail, error)

type Retrainer func(ctx context.Context, client rest.Client, modelId string) error

type Option struct {
	get     Getter
	retrain Retrainer
}

func WithRunner(get Getter, retrain Retrainer) func(*Option) *Option {
	return func(o *Option) *Option {
		o.get = get
		o.retrain = retrain
		return o
	}
}

const ARG_MODEL_ID = "MODEL_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{get: common.GetModel, retrain: RunRetrainModel}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Train a model again.",
		struct{}{},
		flarc.Args{
			{Name: ARG_MODEL_ID, Required: true, Help: "Id of the model to be retrained"},
		},
		common.NewTask(Task(option.get, option.retrain)),
	)
}

func Task(get Getter, retrain Retrainer) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		cl flarc.Commandline[struct{}],
		_ []any,
	) error {
		modelId := cl.Args()[ARG_MODEL_ID][0]
		m, err := get(ctx, client, modelId)
		if err != nil {
			return err
		}
		if err := common.Gate(actions.ForModel(&m, false), actions.Retrain); err != nil {
			return err
		}
		if err := retrain(ctx, client, modelId); err != nil {
			return err
		}
		ui.NewPrinter(cl.Stdout()).Success("retraining of model %q is started", m.Name)
		return nil
	}
}

func RunRetrainModel(ctx context.Context, client rest.Client, modelId string) error {
	return store.NewModels(client, zerolog.Nop()).Retrain(ctx, modelId)
}
