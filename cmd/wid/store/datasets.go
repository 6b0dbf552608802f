package store

import (
	"context"

	"github.com/opst/writerid/cmd/wid/rest"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	"github.com/opst/writerid/pkg/api/types/status"
	"github.com/rs/zerolog"
)

type Datasets struct {
	client rest.Client
	*Collection[apidatasets.Detail]
}

func NewDatasets(client rest.Client, logger zerolog.Logger) *Datasets {
	return &Datasets{
		client:     client,
		Collection: NewCollection[apidatasets.Detail]("datasets", logger),
	}
}

func (d *Datasets) Refresh(ctx context.Context) error {
	return d.FetchAll(ctx, d.client.ListDatasets)
}

// New creates a dataset. The returned dataset carries its upload URL.
func (d *Datasets) New(ctx context.Context, name string) (apidatasets.Detail, error) {
	return d.Create(
		ctx,
		func(ctx context.Context) (apidatasets.Detail, error) { return d.client.CreateDataset(ctx, name) },
	)
}

func (d *Datasets) Remove(ctx context.Context, datasetId string) error {
	return d.Delete(
		ctx, datasetId,
		func(ctx context.Context) error { return d.client.DeleteDataset(ctx, datasetId) },
	)
}

// Analyze starts writer analysis. The dataset becomes Processing.
func (d *Datasets) Analyze(ctx context.Context, datasetId string) error {
	return d.Act(
		ctx, datasetId,
		func(ctx context.Context) error { return d.client.StartAnalysis(ctx, datasetId) },
		status.Processing,
	)
}

func (d *Datasets) AnalysisResults(ctx context.Context, datasetId string) (apidatasets.AnalysisResults, error) {
	return Load(
		ctx, d.Collection,
		func(ctx context.Context) (apidatasets.AnalysisResults, error) {
			return d.client.GetAnalysisResults(ctx, datasetId)
		},
	)
}

// AccessURL issues a fresh upload URL for the dataset.
func (d *Datasets) AccessURL(ctx context.Context, datasetId string) (apidatasets.AccessURL, error) {
	return Perform(
		ctx, d.Collection,
		func(ctx context.Context) (apidatasets.AccessURL, error) {
			return d.client.GenerateAccessURL(ctx, datasetId)
		},
	)
}
