package store

import (
	"context"

	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/pkg/api/types/status"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/rs/zerolog"
)

type Tasks struct {
	client rest.Client
	*Collection[apitasks.Detail]
}

func NewTasks(client rest.Client, logger zerolog.Logger) *Tasks {
	return &Tasks{
		client:     client,
		Collection: NewCollection[apitasks.Detail]("tasks", logger),
	}
}

func (t *Tasks) Refresh(ctx context.Context) error {
	return t.FetchAll(ctx, t.client.ListTasks)
}

func (t *Tasks) Get(ctx context.Context, taskId string) (apitasks.Detail, error) {
	return t.FetchOne(
		ctx,
		func(ctx context.Context) (apitasks.Detail, error) { return t.client.GetTask(ctx, taskId) },
	)
}

func (t *Tasks) New(ctx context.Context, req apitasks.CreateRequest) (apitasks.Detail, error) {
	return t.Create(
		ctx,
		func(ctx context.Context) (apitasks.Detail, error) { return t.client.CreateTask(ctx, req) },
	)
}

func (t *Tasks) Remove(ctx context.Context, taskId string) error {
	return t.Delete(
		ctx, taskId,
		func(ctx context.Context) error { return t.client.DeleteTask(ctx, taskId) },
	)
}

// Execute starts identification. The task becomes Processing.
func (t *Tasks) Execute(ctx context.Context, taskId string) error {
	return t.Act(
		ctx, taskId,
		func(ctx context.Context) error { return t.client.ExecuteTask(ctx, taskId) },
		status.Processing,
	)
}

func (t *Tasks) Prediction(ctx context.Context, taskId string) (apitasks.Prediction, error) {
	return Load(
		ctx, t.Collection,
		func(ctx context.Context) (apitasks.Prediction, error) { return t.client.GetPrediction(ctx, taskId) },
	)
}

// Writers lists writers of the dataset which a task can choose from.
func (t *Tasks) Writers(ctx context.Context, datasetId string) (apitasks.DatasetAnalysis, error) {
	return Load(
		ctx, t.Collection,
		func(ctx context.Context) (apitasks.DatasetAnalysis, error) {
			return t.client.GetDatasetWriters(ctx, datasetId)
		},
	)
}
