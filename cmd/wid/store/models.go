package store

import (
	"context"

	"github.com/opst/writerid/cmd/wid/rest"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	"github.com/opst/writerid/pkg/api/types/status"
	"github.com/rs/zerolog"
)

type Models struct {
	client rest.Client
	*Collection[apimodels.Detail]
}

func NewModels(client rest.Client, logger zerolog.Logger) *Models {
	return &Models{
		client:     client,
		Collection: NewCollection[apimodels.Detail]("models", logger),
	}
}

func (m *Models) Refresh(ctx context.Context) error {
	return m.FetchAll(ctx, m.client.ListModels)
}

func (m *Models) Get(ctx context.Context, modelId string) (apimodels.Detail, error) {
	return m.FetchOne(
		ctx,
		func(ctx context.Context) (apimodels.Detail, error) { return m.client.GetModel(ctx, modelId) },
	)
}

func (m *Models) New(ctx context.Context, req apimodels.CreateRequest) (apimodels.Detail, error) {
	return m.Create(
		ctx,
		func(ctx context.Context) (apimodels.Detail, error) { return m.client.CreateModel(ctx, req) },
	)
}

func (m *Models) Remove(ctx context.Context, modelId string) error {
	return m.Delete(
		ctx, modelId,
		func(ctx context.Context) error { return m.client.DeleteModel(ctx, modelId) },
	)
}

// Retrain starts training again. The model becomes Processing.
//
// While it is in flight, IsActing of the snapshot is true.
func (m *Models) Retrain(ctx context.Context, modelId string) error {
	return m.Act(
		ctx, modelId,
		func(ctx context.Context) error { return m.client.RetrainModel(ctx, modelId) },
		status.Processing,
	)
}

func (m *Models) TrainingResults(ctx context.Context, modelId string) (apimodels.PerformanceData, error) {
	return Load(
		ctx, m.Collection,
		func(ctx context.Context) (apimodels.PerformanceData, error) {
			return m.client.GetTrainingResults(ctx, modelId)
		},
	)
}
