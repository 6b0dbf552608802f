package execute_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opst/writerid/cmd/wid/actions"
	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/rest/mock"
	"github.com/opst/writerid/cmd/wid/subcommands/internal/commandline"
	"github.com/opst/writerid/cmd/wid/subcommands/logger"
	task_execute "github.com/opst/writerid/cmd/wid/subcommands/task/execute"
	"github.com/opst/writerid/pkg/api/types/status"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/youta-t/flarc"
)

func TestExecuteCommand(t *testing.T) {
	type then struct {
		executed bool
		err      []error
	}

	theory := func(when status.Status, then then) func(*testing.T) {
		return func(t *testing.T) {
			client := mock.New(t)
			client.Impl.GetTask = func(ctx context.Context, taskId string) (apitasks.Detail, error) {
				return apitasks.Detail{Id: taskId, Name: "who", Status: when}, nil
			}
			client.Impl.ExecuteTask = func(ctx context.Context, taskId string) error {
				return nil
			}

			stdout := new(strings.Builder)
			err := task_execute.Task(
				func(ctx context.Context, c rest.Client, taskId string) (apitasks.Detail, error) {
					return c.GetTask(ctx, taskId)
				},
				task_execute.RunExecuteTask,
			)(
				context.Background(), logger.Null(), *env.New(), client,
				commandline.MockCommandline[struct{}]{
					Stdout_: stdout,
					Args_:   map[string][]string{task_execute.ARG_TASK_ID: {"t1"}},
				},
				[]any{},
			)
			for _, e := range then.err {
				if !errors.Is(err, e) {
					t.Errorf("err: %v is not %v", err, e)
				}
			}
			if len(then.err) == 0 && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if then.executed != (len(client.Calls.ExecuteTask) == 1) {
				t.Errorf("ExecuteTask calls: %v", client.Calls.ExecuteTask)
			}
			if then.executed && !strings.Contains(stdout.String(), `task "who" is executing`) {
				t.Errorf("unexpected stdout: %s", stdout.String())
			}
		}
	}

	t.Run("when the task is Created, it executes", theory(status.Created, then{executed: true}))
	t.Run("when the task is Failed, it retries", theory(status.Failed, then{executed: true}))
	t.Run("when the task is Processing, it refuses", theory(
		status.Processing, then{err: []error{flarc.ErrUsage, actions.ErrNotAllowed}},
	))
	t.Run("when the task is Completed, it refuses", theory(
		status.Completed, then{err: []error{flarc.ErrUsage, actions.ErrNotAllowed}},
	))
}
