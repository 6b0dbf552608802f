package rm_test

import (
	"context"
	"errors"
	"testing"

	"github.com/opst/writerid/cmd/wid/actions"
	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/rest/mock"
	dataset_rm "github.com/opst/writerid/cmd/wid/subcommands/dataset/rm"
	"github.com/opst/writerid/cmd/wid/subcommands/internal/commandline"
	"github.com/opst/writerid/cmd/wid/subcommands/logger"
	"github.com/opst/writerid/cmd/wid/ui"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	"github.com/opst/writerid/pkg/api/types/status"
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
			find := func(ctx context.Context, c rest.Client, datasetId string) (apidatasets.Detail, error) {
				return apidatasets.Detail{Id: datasetId, Name: "letters", Status: when.status}, nil
			}
			removed := []string{}
			remove := func(ctx context.Context, c rest.Client, datasetId string) error {
				removed = append(removed, datasetId)
				return nil
			}
			prompter := ui.NewScripted(when.answers...)

			err := dataset_rm.Task(find, remove, prompter)(
				context.Background(), logger.Null(), *env.New(), client,
				commandline.MockCommandline[dataset_rm.Flags]{
					Flags_: dataset_rm.Flags{Yes: when.yes},
					Args_:  map[string][]string{dataset_rm.ARG_DATASET_ID: {"d1"}},
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
			if then.removed != (len(removed) == 1) {
				t.Errorf("removed: %v", removed)
			}
			if len(prompter.Asked) != then.asked {
				t.Errorf("asked: %v", prompter.Asked)
			}
		}
	}

	t.Run("when the operator confirms, it removes the dataset", theory(
		when{status: status.Completed, answers: []any{true}},
		then{removed: true, asked: 1},
	))

	t.Run("when the operator declines, it does not remove the dataset", theory(
		when{status: status.Completed, answers: []any{false}},
		then{removed: false, asked: 1},
	))

	t.Run("when --yes is passed, it removes without asking", theory(
		when{status: status.Failed, yes: true},
		then{removed: true, asked: 0},
	))

	t.Run("when the prompt is canceled, it returns ErrCanceled", theory(
		when{status: status.Created, answers: []any{ui.ErrCanceled}},
		then{removed: false, asked: 1, err: []error{ui.ErrCanceled}},
	))

	t.Run("when the dataset is Processing, it refuses before asking", theory(
		when{status: status.Processing, yes: true},
		then{removed: false, asked: 0, err: []error{flarc.ErrUsage, actions.ErrNotAllowed}},
	))
}
