package list_test

import (
	"context"
	"strings"
	"testing"

	"github.com/opst/writerid/cmd/wid/env"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/rest/mock"
	"github.com/opst/writerid/cmd/wid/subcommands/internal/commandline"
	"github.com/opst/writerid/cmd/wid/subcommands/logger"
	model_list "github.com/opst/writerid/cmd/wid/subcommands/model/list"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	"github.com/opst/writerid/pkg/api/types/status"
)

func TestListCommand(t *testing.T) {
	t.Run("it prints models fetched from the API", func(t *testing.T) {
		accuracy := 0.921
		client := mock.New(t)
		client.Impl.ListModels = func(ctx context.Context) (rest.Page[apimodels.Detail], error) {
			return rest.Page[apimodels.Detail]{
				Items: []apimodels.Detail{
					{Id: "m1", Name: "resnet", Status: status.Completed, Accuracy: &accuracy, TrainedOn: "letters"},
					{Id: "m2", Name: "vgg", Status: status.Processing, DatasetId: "d2"},
				},
				Total: 2,
			}, nil
		}

		stdout := new(strings.Builder)
		err := model_list.Task(model_list.RunListModels)(
			context.Background(), logger.Null(), *env.New(), client,
			commandline.MockCommandline[model_list.Flags]{Stdout_: stdout},
			[]any{},
		)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range []string{"ACCURACY", "resnet", "92.1%", "letters", "vgg", "d2", "Total: 2"} {
			if !strings.Contains(stdout.String(), c) {
				t.Errorf("stdout does not contain %q:\n%s", c, stdout.String())
			}
		}
	})

	t.Run("when there are no models, it prints so", func(t *testing.T) {
		client := mock.New(t)
		client.Impl.ListModels = func(ctx context.Context) (rest.Page[apimodels.Detail], error) {
			return rest.Page[apimodels.Detail]{}, nil
		}

		stdout := new(strings.Builder)
		err := model_list.Task(model_list.RunListModels)(
			context.Background(), logger.Null(), *env.New(), client,
			commandline.MockCommandline[model_list.Flags]{Stdout_: stdout},
			[]any{},
		)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(stdout.String(), "No models found") {
			t.Errorf("unexpected stdout: %s", stdout.String())
		}
	})
}
