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
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Yes bool `flag:"yes" alias:"y" help:"remove without confirmation"`
}

type Getter func(ctx context.Context, client rest.Client, modelId string) (apimodels.Detail, error)

type Remover func(ctx context.Context, client rest.Client, modelId string) error

type Option struct {
	get      Getter
	remove   Remover
	prompter ui.Prompter
}

func WithRunner(get Getter, remove Remover) func(*Option) *Option {
	return func(o *Option) *Option {
		o.get = get
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

const ARG_MODEL_ID = "MODEL_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{get: common.GetModel, remove: RunDeleteModel, prompter: ui.Survey{}}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Delete a model.",
		Flags{},
		flarc.Args{
			{Name: ARG_MODEL_ID, Required: true, Help: "Id of the model to be deleted."},
		},
		common.NewTask(Task(option.get, option.remove, option.prompter)),
	)
}

func Task(get Getter, remove Remover, prompter ui.Prompter) common.Task[Flags] {
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
		if err := common.Gate(actions.ForModel(&m, false), actions.Remove); err != nil {
			return err
		}

		ok, err := common.Confirm(
			prompter,
			fmt.Sprintf("Delete model %q (%s)? This can not be undone.", m.Name, m.Id),
			cl.Flags().Yes,
		)
		if err != nil {
			return err
		}
		if !ok {
			logger.Println("canceled.")
			return nil
		}

		if err := remove(ctx, client, modelId); err != nil {
			return err
		}
		logger.Printf("deleted Model Id:%v", modelId)
		return nil
	}
}

func RunDeleteModel(ctx context.Context, client rest.Client, modelId string) error {
	return store.NewModels(client, zerolog.Nop()).Remove(ctx, modelId)
}
