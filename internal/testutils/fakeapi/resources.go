package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	apidashboard "github.com/opst/writerid/pkg/api/types/dashboard"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	apierr "github.com/opst/writerid/pkg/api/types/errors"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	"github.com/opst/writerid/pkg/api/types/status"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/opst/writerid/pkg/utils/rfctime"
)

// MinWriters is the least number of candidates a task accepts.
const MinWriters = 5

func find[T any](items []T, id string, key func(T) string) int {
	return slices.IndexFunc(items, func(t T) bool { return key(t) == id })
}

func (s *Server) stats(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := apidashboard.Stats{
		TotalTasks:    len(s.tasks),
		TotalDatasets: len(s.datasets),
		TotalModels:   len(s.models),
	}
	for _, t := range s.tasks {
		switch t.Status {
		case status.Completed:
			st.CompletedTasks += 1
		case status.Processing:
			st.RunningTasks += 1
		}
	}
	return c.JSON(http.StatusOK, st)
}

func (s *Server) newDataset(name string) apidatasets.Detail {
	now := s.timestamp()
	return apidatasets.Detail{
		Id: s.nextId("d"), Name: name, Status: status.Created,
		CreatedAt: now, UpdatedAt: now,
	}
}

func (s *Server) sasUrl(datasetId string) string {
	return fmt.Sprintf("https://storage.example.com/datasets/%s?sig=%s", datasetId, uuid.NewString())
}

// datasets are listed in { "data": [...], "total": n }.
func (s *Server) listDatasets(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]any{
		"data": slices.Clone(s.datasets), "total": len(s.datasets),
	})
}

func (s *Server) createDataset(c echo.Context) error {
	req := apidatasets.CreateRequest{}
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return apierr.BadRequest("dataset name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.newDataset(req.Name)
	s.datasets = append(s.datasets, d)

	d.SasUrl = s.sasUrl(d.Id)
	return c.JSON(http.StatusCreated, d)
}

func (s *Server) deleteDataset(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.datasets, c.Param("id"), apidatasets.Detail.Key)
	if i < 0 {
		return apierr.NotFound()
	}
	s.datasets = slices.Delete(s.datasets, i, i+1)
	delete(s.writers, c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

// analyze finds writers w001, w002, ... in the dataset.
func (s *Server) analyze(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.datasets, c.Param("id"), apidatasets.Detail.Key)
	if i < 0 {
		return apierr.NotFound()
	}
	d := &s.datasets[i]
	if d.Status == status.Processing {
		return apierr.Conflict("analysis is running")
	}
	if _, ok := s.writers[d.Id]; !ok {
		names := []string{}
		for n := range MinWriters + 1 {
			names = append(names, fmt.Sprintf("w%03d", n+1))
		}
		s.writers[d.Id] = names
	}
	d.Status = status.Completed
	d.UpdatedAt = s.timestamp()
	return c.NoContent(http.StatusAccepted)
}

func (s *Server) analysisResults(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.datasets, c.Param("id"), apidatasets.Detail.Key)
	if i < 0 {
		return apierr.NotFound()
	}
	d := s.datasets[i]
	if d.Status != status.Completed {
		return apierr.BadRequest("dataset is not analyzed")
	}
	results, err := json.Marshal(map[string]any{"writers": s.writers[d.Id]})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, apidatasets.AnalysisResults{
		Id:          "a" + d.Id,
		DatasetId:   d.Id,
		Status:      "Completed",
		Results:     results,
		CompletedAt: d.UpdatedAt,
	})
}

func (s *Server) accessURL(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.datasets, c.Param("id"), apidatasets.Detail.Key)
	if i < 0 {
		return apierr.NotFound()
	}
	return c.JSON(http.StatusOK, apidatasets.AccessURL{
		SasUrl:    s.sasUrl(s.datasets[i].Id),
		ExpiresAt: s.timestamp(),
	})
}

func (s *Server) performance(d apidatasets.Detail) *apimodels.PerformanceData {
	n := len(s.writers[d.Id])
	matrix := make([][]int, n)
	for i := range matrix {
		matrix[i] = make([]int, n)
		matrix[i][i] = 10
	}
	return &apimodels.PerformanceData{
		DatasetPath:       "datasets/" + d.Id,
		Accuracy:          0.9,
		F1Score:           0.88,
		Precision:         0.87,
		Recall:            0.89,
		ConfusionMatrix:   matrix,
		Time:              12.5,
		RequestedEpisodes: 100,
		ActualEpisodesRun: 80,
		OptimalValEpisode: 64,
		BestValAccuracy:   0.91,
		Backbone:          "resnet18",
	}
}

// models are listed as a bare array.
func (s *Server) listModels(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, slices.Clone(s.models))
}

func (s *Server) createModel(c echo.Context) error {
	req := apimodels.CreateRequest{}
	if err := c.Bind(&req); err != nil || req.Name == "" || req.DatasetId == "" {
		return apierr.BadRequest("model name and dataset are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.datasets, req.DatasetId, apidatasets.Detail.Key)
	if i < 0 {
		return apierr.BadRequest("dataset is not found")
	}
	d := s.datasets[i]
	if d.Status != status.Completed {
		return apierr.BadRequest("dataset is not analyzed")
	}

	now := s.timestamp()
	pd := s.performance(d)
	accuracy := pd.Accuracy
	m := apimodels.Detail{
		Id:              s.nextId("m"),
		Name:            req.Name,
		Status:          status.Completed,
		Accuracy:        &accuracy,
		DatasetId:       d.Id,
		TrainedOn:       d.Name,
		CreatedAt:       now,
		UpdatedAt:       now,
		PerformanceData: pd,
	}
	s.models = append(s.models, m)
	return c.JSON(http.StatusCreated, m)
}

func (s *Server) getModel(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.models, c.Param("id"), apimodels.Detail.Key)
	if i < 0 {
		return apierr.NotFound()
	}
	return c.JSON(http.StatusOK, s.models[i])
}

func (s *Server) deleteModel(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.models, c.Param("id"), apimodels.Detail.Key)
	if i < 0 {
		return apierr.NotFound()
	}
	s.models = slices.Delete(s.models, i, i+1)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) retrain(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.models, c.Param("id"), apimodels.Detail.Key)
	if i < 0 {
		return apierr.NotFound()
	}
	s.models[i].UpdatedAt = s.timestamp()
	return c.NoContent(http.StatusAccepted)
}

func (s *Server) trainingResults(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.models, c.Param("id"), apimodels.Detail.Key)
	if i < 0 {
		return apierr.NotFound()
	}
	pd := s.models[i].PerformanceData
	if pd == nil {
		return apierr.BadRequest("model is not trained")
	}
	return c.JSON(http.StatusOK, pd)
}

// tasks are listed in { "tasks": [...] }.
func (s *Server) listTasks(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]apitasks.Detail, 0, len(s.tasks))
	for _, t := range s.tasks {
		t.QueryImageBase64 = ""
		items = append(items, t)
	}
	return c.JSON(http.StatusOK, map[string]any{"tasks": items})
}

func (s *Server) createTask(c echo.Context) error {
	req := apitasks.CreateRequest{}
	if err := c.Bind(&req); err != nil || req.Name == "" || req.QueryImageBase64 == "" {
		return apierr.BadRequest("task name and query image are required")
	}
	if len(req.SelectedWriters) < MinWriters {
		return apierr.BadRequest(fmt.Sprintf("at least %d writers are required", MinWriters))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.datasets, req.DatasetId, apidatasets.Detail.Key)
	if i < 0 {
		return apierr.BadRequest("dataset is not found")
	}
	d := s.datasets[i]

	t := apitasks.Detail{
		Id:               s.nextId("t"),
		Name:             req.Name,
		Description:      req.Description,
		DatasetId:        apitasks.Ref(d.Id),
		DatasetName:      d.Name,
		Status:           status.Created,
		SelectedWriters:  req.SelectedWriters,
		QueryImageBase64: req.QueryImageBase64,
		CreatedAt:        s.timestamp(),
		UpdatedAt:        s.timestamp(),
	}
	if req.UseDefaultModel || req.ModelId == "" {
		t.ModelName = "Default model"
	} else {
		j := find(s.models, req.ModelId, apimodels.Detail.Key)
		if j < 0 {
			return apierr.BadRequest("model is not found")
		}
		t.ModelId = apitasks.Ref(s.models[j].Id)
		t.ModelName = s.models[j].Name
	}
	s.tasks = append(s.tasks, t)
	return c.JSON(http.StatusCreated, t)
}

func (s *Server) getTask(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.tasks, c.Param("id"), apitasks.Detail.Key)
	if i < 0 {
		return apierr.NotFound()
	}
	return c.JSON(http.StatusOK, s.tasks[i])
}

func (s *Server) deleteTask(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.tasks, c.Param("id"), apitasks.Detail.Key)
	if i < 0 {
		return apierr.NotFound()
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return c.NoContent(http.StatusNoContent)
}

// execute identifies the first selected writer.
func (s *Server) execute(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.tasks, c.Param("id"), apitasks.Detail.Key)
	if i < 0 {
		return apierr.NotFound()
	}
	t := &s.tasks[i]
	if t.Status == status.Processing {
		return apierr.Conflict("task is running")
	}
	accuracy := 0.93
	t.Status = status.Completed
	t.Accuracy = &accuracy
	t.WriterIdentified = t.SelectedWriters[0]
	t.UpdatedAt = rfctime.RFC3339(s.now().UTC().Add(time.Second).Truncate(time.Second))
	return c.NoContent(http.StatusAccepted)
}

func (s *Server) prediction(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.tasks, c.Param("id"), apitasks.Detail.Key)
	if i < 0 {
		return apierr.NotFound()
	}
	t := s.tasks[i]
	if t.Status != status.Completed {
		return apierr.BadRequest("task is not executed")
	}

	scores := map[string]float64{}
	for n, w := range t.SelectedWriters {
		scores[w] = 0.93 / float64(n+1)
	}
	return c.JSON(http.StatusOK, apitasks.Prediction{
		TaskId:           t.Id,
		WriterIdentified: t.WriterIdentified,
		Confidence:       t.Accuracy,
		Scores:           scores,
	})
}

func (s *Server) datasetWriters(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := find(s.datasets, c.Param("id"), apidatasets.Detail.Key)
	if i < 0 {
		return apierr.NotFound()
	}
	d := s.datasets[i]
	names, ok := s.writers[d.Id]
	if !ok {
		names = []string{}
	}
	return c.JSON(http.StatusOK, apitasks.DatasetAnalysis{
		DatasetId:   d.Id,
		DatasetName: d.Name,
		Status:      d.Status.String(),
		WriterNames: names,
		AnalyzedAt:  d.UpdatedAt,
	})
}
