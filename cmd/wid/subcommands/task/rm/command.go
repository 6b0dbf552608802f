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
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

type Flags struct {
	Yes bool `flag:"yes" alias:"y" help:"remove without confirmation"`
}

type Getter func(ctx context.Context, client rest.Client, taskId string) (apitasks.Detail, error)

type Remover func(ctx context.Context, client rest.Client, taskId string) error

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

const ARG_TASK_ID = "TASK_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{get: common.GetTask, remove: RunDeleteTask, prompter: ui.Survey{}}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Delete a task.",
		Flags{},
		flarc.Args{
			{Name: ARG_TASK_ID, Required: true, Help: "Id of the task to be deleted."},
		},
		common.NewTask(Task(option.get, option.remove, option.prompter)),
		flarc.WithDescription(`
Delete a task. Tasks in "Processing" status can not be deleted.

It asks confirmation unless --yes is passed.
`),
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
		taskId := cl.Args()[ARG_TASK_ID][0]
		t, err := get(ctx, client, taskId)
		if err != nil {
			return err
		}
		if err := common.Gate(actions.ForTask(&t), actions.Remove); err != nil {
			return err
		}

		ok, err := common.Confirm(
			prompter,
			fmt.Sprintf("Delete task %q (%s)? This can not be undone.", t.Name, t.Id),
			cl.Flags().Yes,
		)
		if err != nil {
			return err
		}
		if !ok {
			logger.Println("canceled.")
			return nil
		}

		if err := remove(ctx, client, taskId); err != nil {
			return err
		}
		logger.Printf("deleted Task Id:%v", taskId)
		return nil
	}
}

func RunDeleteTask(ctx context.Context, client rest.Client, taskId string) error {
	return store.NewTasks(client, zerolog.Nop()).Remove(ctx, taskId)
}
