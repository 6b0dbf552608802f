package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/opst/writerid/cmd/wid/actions"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/cmd/wid/store"
	"github.com/opst/writerid/cmd/wid/ui"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/rs/zerolog"
	"github.com/youta-t/flarc"
)

// ErrNotFound is returned when the requested entity is not listed.
var ErrNotFound = errors.New("not found")

// FindDataset looks up the dataset in the list. The API has no endpoint for one dataset.
func FindDataset(ctx context.Context, client rest.Client, datasetId string) (apidatasets.Detail, error) {
	datasets := store.NewDatasets(client, zerolog.Nop())
	if err := datasets.Refresh(ctx); err != nil {
		return apidatasets.Detail{}, err
	}
	d, ok := datasets.Find(datasetId)
	if !ok {
		return apidatasets.Detail{}, fmt.Errorf("%w: dataset %s", ErrNotFound, datasetId)
	}
	return d, nil
}

func GetModel(ctx context.Context, client rest.Client, modelId string) (apimodels.Detail, error) {
	return store.NewModels(client, zerolog.Nop()).Get(ctx, modelId)
}

func GetTask(ctx context.Context, client rest.Client, taskId string) (apitasks.Detail, error) {
	return store.NewTasks(client, zerolog.Nop()).Get(ctx, taskId)
}

// Gate returns a usage error unless the menu enables the action.
func Gate(menu actions.Menu, action actions.Action) error {
	if err := menu.Check(action); err != nil {
		return errors.Join(flarc.ErrUsage, err)
	}
	return nil
}

// Confirm asks the operator unless yes is true.
func Confirm(prompter ui.Prompter, message string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	return prompter.Confirm(message, false)
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}
