package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/opst/writerid/pkg/utils/rfctime"
	"github.com/rs/zerolog"
)

func (c *client) ListTasks(ctx context.Context) (Page[apitasks.Detail], error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("Tasks"), nil)
	if err != nil {
		return Page[apitasks.Detail]{}, err
	}
	defer resp.Body.Close()

	body, err := readResponse(resp, MessageFor{
		Status4xx: "cannot list tasks",
		Status5xx: "server error",
	})
	if err != nil {
		return Page[apitasks.Detail]{}, err
	}
	return decodeList[apitasks.Detail](body, "tasks", c.logger)
}

func (c *client) GetTask(ctx context.Context, taskId string) (apitasks.Detail, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("Tasks", taskId), nil)
	if err != nil {
		return apitasks.Detail{}, err
	}
	defer resp.Body.Close()

	t := apitasks.Detail{}
	if err := unmarshalJsonResponse(resp, &t, MessageFor{
		Status4xx: fmt.Sprintf("task %s is not found", taskId),
		Status5xx: "server error",
	}); err != nil {
		return apitasks.Detail{}, err
	}
	return t, nil
}

func (c *client) CreateTask(ctx context.Context, req apitasks.CreateRequest) (apitasks.Detail, error) {
	resp, err := c.do(ctx, http.MethodPost, c.apipath("Tasks"), req)
	if err != nil {
		return apitasks.Detail{}, err
	}
	defer resp.Body.Close()

	t := apitasks.Detail{}
	if err := unmarshalJsonResponse(resp, &t, MessageFor{
		Status4xx: fmt.Sprintf("cannot create task %q", req.Name),
		Status5xx: "server error",
	}); err != nil {
		return apitasks.Detail{}, err
	}
	if t.Name == "" {
		t.Name = req.Name
	}
	if t.DatasetId == "" {
		t.DatasetId = apitasks.Ref(req.DatasetId)
	}
	return t, nil
}

func (c *client) ExecuteTask(ctx context.Context, taskId string) error {
	resp, err := c.do(ctx, http.MethodPost, c.apipath("Tasks", taskId, "execute"), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = readResponse(resp, MessageFor{
		Status4xx: fmt.Sprintf("cannot execute task %s", taskId),
		Status5xx: "server error",
	})
	return err
}

func (c *client) DeleteTask(ctx context.Context, taskId string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.apipath("Tasks", taskId), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, err = readResponse(resp, MessageFor{
		Status4xx: fmt.Sprintf("cannot delete task %s", taskId),
		Status5xx: "server error",
	})
	return err
}

func (c *client) GetPrediction(ctx context.Context, taskId string) (apitasks.Prediction, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("Tasks", taskId, "prediction"), nil)
	if err != nil {
		return apitasks.Prediction{}, err
	}
	defer resp.Body.Close()

	p := apitasks.Prediction{}
	if err := unmarshalJsonResponse(resp, &p, MessageFor{
		Status4xx: fmt.Sprintf("cannot get prediction of task %s", taskId),
		Status5xx: "server error",
	}); err != nil {
		return apitasks.Prediction{}, err
	}
	if p.TaskId == "" {
		p.TaskId = taskId
	}
	return p, nil
}

const (
	UnknownDatasetName = "Unknown Dataset"
	UnknownStatus      = "Unknown"

	// confidence given to writers listed only by name
	defaultWriterConfidence = 100
)

func (c *client) GetDatasetWriters(ctx context.Context, datasetId string) (apitasks.DatasetAnalysis, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("Tasks", "dataset", datasetId, "analysis"), nil)
	if err != nil {
		return apitasks.DatasetAnalysis{}, err
	}
	defer resp.Body.Close()

	body, err := readResponse(resp, MessageFor{
		Status4xx: fmt.Sprintf("cannot get writers of dataset %s", datasetId),
		Status5xx: "server error",
	})
	if err != nil {
		return apitasks.DatasetAnalysis{}, err
	}
	return normalizeDatasetAnalysis(body, datasetId, c.logger), nil
}

// normalizeDatasetAnalysis reads writers of a dataset.
//
// The server lists writers by name in "writer_names". They get ids
// writer_1, writer_2, ... in order. A payload without the list is read as
// no writers.
func normalizeDatasetAnalysis(body []byte, datasetId string, logger zerolog.Logger) apitasks.DatasetAnalysis {
	ret := apitasks.DatasetAnalysis{
		DatasetId:   datasetId,
		DatasetName: UnknownDatasetName,
		Status:      UnknownStatus,
		WriterNames: []string{},
		Writers:     []apitasks.Writer{},
	}

	raw := apitasks.DatasetAnalysis{}
	if err := json.Unmarshal(bytes.TrimSpace(body), &raw); err != nil || raw.WriterNames == nil {
		logger.Warn().Str("dataset_id", datasetId).Msg("unknown shape of dataset analysis. no writers")
		ret.AnalyzedAt = rfctime.RFC3339(time.Now())
		return ret
	}

	if raw.DatasetId != "" {
		ret.DatasetId = raw.DatasetId
	}
	if raw.DatasetName != "" {
		ret.DatasetName = raw.DatasetName
	}
	if raw.Status != "" {
		ret.Status = raw.Status
	}
	ret.AnalyzedAt = raw.AnalyzedAt
	if ret.AnalyzedAt.IsZero() {
		ret.AnalyzedAt = rfctime.RFC3339(time.Now())
	}

	ret.WriterNames = raw.WriterNames
	for i, name := range raw.WriterNames {
		ret.Writers = append(ret.Writers, apitasks.Writer{
			WriterId:    fmt.Sprintf("writer_%d", i+1),
			WriterName:  name,
			SampleCount: 0,
			Confidence:  defaultWriterConfidence,
		})
	}
	return ret
}
