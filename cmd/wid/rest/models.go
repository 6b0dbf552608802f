package rest

import (
	"context"
	"fmt"
	"net/http"

	apimodels "github.com/opst/writerid/pkg/api/types/models"
)

func (c *client) ListModels(ctx context.Context) (Page[apimodels.Detail], error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("models"), nil)
	if err != nil {
		return Page[apimodels.Detail]{}, err
	}
	defer resp.Body.Close()

	body, err := readResponse(resp, MessageFor{
		Status4xx: "cannot list models",
		Status5xx: "server error",
	})
	if err != nil {
		return Page[apimodels.Detail]{}, err
	}
	return decodeList[apimodels.Detail](body, "models", c.logger)
}

func (c *client) GetModel(ctx context.Context, modelId string) (apimodels.Detail, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("models", modelId), nil)
	if err != nil {
		return apimodels.Detail{}, err
	}
	defer resp.Body.Close()

	m := apimodels.Detail{}
	if err := unmarshalJsonResponse(resp, &m, MessageFor{
		Status4xx: fmt.Sprintf("model %s is not found", modelId),
		Status5xx: "server error",
	}); err != nil {
		return apimodels.Detail{}, err
	}
	return m, nil
}

func (c *client) CreateModel(ctx context.Context, req apimodels.CreateRequest) (apimodels.Detail, error) {
	resp, err := c.do(ctx, http.MethodPost, c.apipath("models"), req)
	if err != nil {
		return apimodels.Detail{}, err
	}
	defer resp.Body.Close()

	m := apimodels.Detail{}
	if err := unmarshalJsonResponse(resp, &m, MessageFor{
		Status4xx: fmt.Sprintf("cannot create model %q", req.Name),
		Status5xx: "server error",
	}); err != nil {
		return apimodels.Detail{}, err
	}
	if m.Name == "" {
		m.Name = req.Name
	}
	if m.DatasetId == "" {
		m.DatasetId = req.DatasetId
	}
	return m, nil
}

func (c *client) DeleteModel(ctx context.Context, modelId string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.apipath("models", modelId), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = readResponse(resp, MessageFor{
		Status4xx: fmt.Sprintf("cannot delete model %s", modelId),
		Status5xx: "server error",
	})
	return err
}

func (c *client) RetrainModel(ctx context.Context, modelId string) error {
	resp, err := c.do(ctx, http.MethodPost, c.apipath("models", modelId, "retrain"), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = readResponse(resp, MessageFor{
		Status4xx: fmt.Sprintf("cannot retrain model %s", modelId),
		Status5xx: "server error",
	})
	return err
}

func (c *client) GetTrainingResults(ctx context.Context, modelId string) (apimodels.PerformanceData, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("models", modelId, "training-results"), nil)
	if err != nil {
		return apimodels.PerformanceData{}, err
	}
	defer resp.Body.Close()

	pd := apimodels.PerformanceData{}
	if err := unmarshalJsonResponse(resp, &pd, MessageFor{
		Status4xx: fmt.Sprintf("cannot get training results of model %s", modelId),
		Status5xx: "server error",
	}); err != nil {
		return apimodels.PerformanceData{}, err
	}
	return pd, nil
}
