package execute

import (
	"context"
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

type Getter func(ctx context.Context, client rest.Client, taskId string) (apitasks.Detail, error)

type Executor func(ctx context.Context, client rest.Client, taskId string) error

type Option struct {
	get     Getter
	execute Executor
}

func WithRunner(get Getter, execute Executor) func(*Option) *Option {
	return func(o *Option) *Option {
		o.get = get
		o.execute = execute
		return o
	}
}

const ARG_TASK_ID = "TASK_ID"

func New(options ...func(*Option) *Option) (flarc.Command, error) {
	option := &Option{get: common.GetTask, execute: RunExecuteTask}
	for _, opt := range options {
		option = opt(option)
	}

	return flarc.NewCommand(
		"Execute a task.",
		struct{}{},
		flarc.Args{
			{Name: ARG_TASK_ID, Required: true, Help: "Id of the task to be executed"},
		},
		common.NewTask(Task(option.get, option.execute)),
		flarc.WithDescription(`
Execute writer identification of a task.

Tasks in "Created" status can be executed. "Failed" tasks can be retried.
`),
	)
}

func Task(get Getter, execute Executor) common.Task[struct{}] {
	return func(
		ctx context.Context,
		logger *log.Logger,
		_ env.WidEnv,
		client rest.Client,
		cl flarc.Commandline[struct{}],
		_ []any,
	) error {
		taskId := cl.Args()[ARG_TASK_ID][0]
		t, err := get(ctx, client, taskId)
		if err != nil {
			return err
		}
		if err := common.Gate(actions.ForTask(&t), actions.Execute); err != nil {
			return err
		}
		if err := execute(ctx, client, taskId); err != nil {
			return err
		}
		ui.NewPrinter(cl.Stdout()).Success("task %q is executing", t.Name)
		return nil
	}
}

func RunExecuteTask(ctx context.Context, client rest.Client, taskId string) error {
	return store.NewTasks(client, zerolog.Nop()).Execute(ctx, taskId)
}
