package rest

import (
	"context"
	"fmt"
	"net/http"

	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
)

func (c *client) ListDatasets(ctx context.Context) (Page[apidatasets.Detail], error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("Datasets"), nil)
	if err != nil {
		return Page[apidatasets.Detail]{}, err
	}
	defer resp.Body.Close()

	body, err := readResponse(resp, MessageFor{
		Status4xx: "cannot list datasets",
		Status5xx: "server error",
	})
	if err != nil {
		return Page[apidatasets.Detail]{}, err
	}
	return decodeList[apidatasets.Detail](body, "datasets", c.logger)
}

func (c *client) CreateDataset(ctx context.Context, name string) (apidatasets.Detail, error) {
	resp, err := c.do(
		ctx, http.MethodPost, c.apipath("Datasets"),
		apidatasets.CreateRequest{Name: name},
	)
	if err != nil {
		return apidatasets.Detail{}, err
	}
	defer resp.Body.Close()

	created := apidatasets.Detail{}
	if err := unmarshalJsonResponse(resp, &created, MessageFor{
		Status4xx: fmt.Sprintf("cannot create dataset %q", name),
		Status5xx: "server error",
	}); err != nil {
		return apidatasets.Detail{}, err
	}
	if created.Name == "" {
		created.Name = name
	}
	return created, nil
}

func (c *client) DeleteDataset(ctx context.Context, datasetId string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.apipath("Datasets", datasetId), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = readResponse(resp, MessageFor{
		Status4xx: fmt.Sprintf("cannot delete dataset %s", datasetId),
		Status5xx: "server error",
	})
	return err
}

func (c *client) StartAnalysis(ctx context.Context, datasetId string) error {
	resp, err := c.do(ctx, http.MethodPost, c.apipath("Datasets", datasetId, "analyze"), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = readResponse(resp, MessageFor{
		Status4xx: fmt.Sprintf("cannot start analysis of dataset %s", datasetId),
		Status5xx: "server error",
	})
	return err
}

func (c *client) GetAnalysisResults(ctx context.Context, datasetId string) (apidatasets.AnalysisResults, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("Datasets", datasetId, "analysis-results"), nil)
	if err != nil {
		return apidatasets.AnalysisResults{}, err
	}
	defer resp.Body.Close()

	results := apidatasets.AnalysisResults{}
	if err := unmarshalJsonResponse(resp, &results, MessageFor{
		Status4xx: fmt.Sprintf("cannot get analysis results of dataset %s", datasetId),
		Status5xx: "server error",
	}); err != nil {
		return apidatasets.AnalysisResults{}, err
	}
	if results.DatasetId == "" {
		results.DatasetId = datasetId
	}
	return results, nil
}

func (c *client) GenerateAccessURL(ctx context.Context, datasetId string) (apidatasets.AccessURL, error) {
	resp, err := c.do(ctx, http.MethodPost, c.apipath("Datasets", datasetId, "access-url"), nil)
	if err != nil {
		return apidatasets.AccessURL{}, err
	}
	defer resp.Body.Close()

	u := apidatasets.AccessURL{}
	if err := unmarshalJsonResponse(resp, &u, MessageFor{
		Status4xx: fmt.Sprintf("cannot generate access URL of dataset %s", datasetId),
		Status5xx: "server error",
	}); err != nil {
		return apidatasets.AccessURL{}, err
	}
	return u, nil
}
