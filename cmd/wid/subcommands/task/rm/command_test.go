package rm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/opst/writerid/cmd/wid/actions"
	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/rest/mock"
	"github.com/opst/writerid/cmd/wid/subcommands/internal/commandline"
	"github.com/opst/writerid/cmd/wid/subcommands/logger"
	task_rm "github.com/opst/writerid/cmd/wid/subcommands/task/rm"
	"github.com/opst/writerid/cmd/wid/ui"
	"github.com/opst/writerid/pkg/api/types/status"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/youta-t/flarc"
)

func TestRmCommand(t *testing.T) {
	type when struct {
		status  status.Status
		yes     bool
		answers []any
	}
	type then struct {
		removed bool
		asked   int
		err     []error
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			client := mock.New(t)
			client.Impl.DeleteTask = func(ctx context.Context, taskId string) error {
				return nil
			}
			get := func(ctx context.Context, c rest.Client, taskId string) (apitasks.Detail, error) {
				return apitasks.Detail{Id: taskId, Name: "who", Status: when.status}, nil
			}
			prompter := ui.NewScripted(when.answers...)

			err := task_rm.Task(get, task_rm.RunDeleteTask, prompter)(
				context.Background(), logger.Null(), *env.New(), client,
				commandline.MockCommandline[task_rm.Flags]{
					Flags_: task_rm.Flags{Yes: when.yes},
					Args_:  map[string][]string{task_rm.ARG_TASK_ID: {"t1"}},
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
			if then.removed != (len(client.Calls.DeleteTask) == 1) {
				t.Errorf("DeleteTask calls: %v", client.Calls.DeleteTask)
			}
			if len(prompter.Asked) != then.asked {
				t.Errorf("asked: %v", prompter.Asked)
			}
		}
	}

	t.Run("when the operator confirms, it removes the task", theory(
		when{status: status.Completed, answers: []any{true}},
		then{removed: true, asked: 1},
	))
	t.Run("when the operator declines, it keeps the task", theory(
		when{status: status.Failed, answers: []any{false}},
		then{removed: false, asked: 1},
	))
	t.Run("when --yes is passed, it removes without asking", theory(
		when{status: status.Created, yes: true},
		then{removed: true, asked: 0},
	))
	t.Run("when the task is Processing, it refuses", theory(
		when{status: status.Processing, yes: true},
		then{err: []error{flarc.ErrUsage, actions.ErrNotAllowed}},
	))
}
