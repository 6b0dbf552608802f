package mock

import (
	"context"
	"sync"
	"testing"

	"github.com/opst/writerid/cmd/wid/rest"
	apiauth "github.com/opst/writerid/pkg/api/types/auth"
	apidashboard "github.com/opst/writerid/pkg/api/types/dashboard"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
)

// New creates a mock of rest.Client.
//
// Set functions to Impl before calling. Calling a method which is not set
// fails the test. Arguments are recorded in Calls.
func New(t *testing.T) *MockClient {
	return &MockClient{t: t}
}

type MockClient struct {
	t    *testing.T
	mu   sync.Mutex
	Impl struct {
		Login              func(ctx context.Context, req apiauth.LoginRequest) (apiauth.Session, error)
		Register           func(ctx context.Context, req apiauth.RegisterRequest) error
		GetStats           func(ctx context.Context) (apidashboard.Stats, error)
		ListDatasets       func(ctx context.Context) (rest.Page[apidatasets.Detail], error)
		CreateDataset      func(ctx context.Context, name string) (apidatasets.Detail, error)
		DeleteDataset      func(ctx context.Context, datasetId string) error
		StartAnalysis      func(ctx context.Context, datasetId string) error
		GetAnalysisResults func(ctx context.Context, datasetId string) (apidatasets.AnalysisResults, error)
		GenerateAccessURL  func(ctx context.Context, datasetId string) (apidatasets.AccessURL, error)
		ListModels         func(ctx context.Context) (rest.Page[apimodels.Detail], error)
		GetModel           func(ctx context.Context, modelId string) (apimodels.Detail, error)
		CreateModel        func(ctx context.Context, req apimodels.CreateRequest) (apimodels.Detail, error)
		DeleteModel        func(ctx context.Context, modelId string) error
		RetrainModel       func(ctx context.Context, modelId string) error
		GetTrainingResults func(ctx context.Context, modelId string) (apimodels.PerformanceData, error)
		ListTasks          func(ctx context.Context) (rest.Page[apitasks.Detail], error)
		GetTask            func(ctx context.Context, taskId string) (apitasks.Detail, error)
		CreateTask         func(ctx context.Context, req apitasks.CreateRequest) (apitasks.Detail, error)
		ExecuteTask        func(ctx context.Context, taskId string) error
		DeleteTask         func(ctx context.Context, taskId string) error
		GetPrediction      func(ctx context.Context, taskId string) (apitasks.Prediction, error)
		GetDatasetWriters  func(ctx context.Context, datasetId string) (apitasks.DatasetAnalysis, error)
	}
	Calls struct {
		Login              []apiauth.LoginRequest
		Register           []apiauth.RegisterRequest
		GetStats           []struct{}
		ListDatasets       []struct{}
		CreateDataset      []string
		DeleteDataset      []string
		StartAnalysis      []string
		GetAnalysisResults []string
		GenerateAccessURL  []string
		ListModels         []struct{}
		GetModel           []string
		CreateModel        []apimodels.CreateRequest
		DeleteModel        []string
		RetrainModel       []string
		GetTrainingResults []string
		ListTasks          []struct{}
		GetTask            []string
		CreateTask         []apitasks.CreateRequest
		ExecuteTask        []string
		DeleteTask         []string
		GetPrediction      []string
		GetDatasetWriters  []string
	}
}

var _ rest.Client = &MockClient{}

func (m *MockClient) Login(ctx context.Context, req apiauth.LoginRequest) (apiauth.Session, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.Login = append(m.Calls.Login, req)
	m.mu.Unlock()
	if m.Impl.Login == nil {
		m.t.Fatal("Login is not ready to be called")
	}
	return m.Impl.Login(ctx, req)
}

func (m *MockClient) Register(ctx context.Context, req apiauth.RegisterRequest) error {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.Register = append(m.Calls.Register, req)
	m.mu.Unlock()
	if m.Impl.Register == nil {
		m.t.Fatal("Register is not ready to be called")
	}
	return m.Impl.Register(ctx, req)
}

func (m *MockClient) GetStats(ctx context.Context) (apidashboard.Stats, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetStats = append(m.Calls.GetStats, struct{}{})
	m.mu.Unlock()
	if m.Impl.GetStats == nil {
		m.t.Fatal("GetStats is not ready to be called")
	}
	return m.Impl.GetStats(ctx)
}

func (m *MockClient) ListDatasets(ctx context.Context) (rest.Page[apidatasets.Detail], error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.ListDatasets = append(m.Calls.ListDatasets, struct{}{})
	m.mu.Unlock()
	if m.Impl.ListDatasets == nil {
		m.t.Fatal("ListDatasets is not ready to be called")
	}
	return m.Impl.ListDatasets(ctx)
}

func (m *MockClient) CreateDataset(ctx context.Context, name string) (apidatasets.Detail, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.CreateDataset = append(m.Calls.CreateDataset, name)
	m.mu.Unlock()
	if m.Impl.CreateDataset == nil {
		m.t.Fatal("CreateDataset is not ready to be called")
	}
	return m.Impl.CreateDataset(ctx, name)
}

func (m *MockClient) DeleteDataset(ctx context.Context, datasetId string) error {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.DeleteDataset = append(m.Calls.DeleteDataset, datasetId)
	m.mu.Unlock()
	if m.Impl.DeleteDataset == nil {
		m.t.Fatal("DeleteDataset is not ready to be called")
	}
	return m.Impl.DeleteDataset(ctx, datasetId)
}

func (m *MockClient) StartAnalysis(ctx context.Context, datasetId string) error {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.StartAnalysis = append(m.Calls.StartAnalysis, datasetId)
	m.mu.Unlock()
	if m.Impl.StartAnalysis == nil {
		m.t.Fatal("StartAnalysis is not ready to be called")
	}
	return m.Impl.StartAnalysis(ctx, datasetId)
}

func (m *MockClient) GetAnalysisResults(ctx context.Context, datasetId string) (apidatasets.AnalysisResults, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetAnalysisResults = append(m.Calls.GetAnalysisResults, datasetId)
	m.mu.Unlock()
	if m.Impl.GetAnalysisResults == nil {
		m.t.Fatal("GetAnalysisResults is not ready to be called")
	}
	return m.Impl.GetAnalysisResults(ctx, datasetId)
}

func (m *MockClient) GenerateAccessURL(ctx context.Context, datasetId string) (apidatasets.AccessURL, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GenerateAccessURL = append(m.Calls.GenerateAccessURL, datasetId)
	m.mu.Unlock()
	if m.Impl.GenerateAccessURL == nil {
		m.t.Fatal("GenerateAccessURL is not ready to be called")
	}
	return m.Impl.GenerateAccessURL(ctx, datasetId)
}

func (m *MockClient) ListModels(ctx context.Context) (rest.Page[apimodels.Detail], error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.ListModels = append(m.Calls.ListModels, struct{}{})
	m.mu.Unlock()
	if m.Impl.ListModels == nil {
		m.t.Fatal("ListModels is not ready to be called")
	}
	return m.Impl.ListModels(ctx)
}

func (m *MockClient) GetModel(ctx context.Context, modelId string) (apimodels.Detail, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetModel = append(m.Calls.GetModel, modelId)
	m.mu.Unlock()
	if m.Impl.GetModel == nil {
		m.t.Fatal("GetModel is not ready to be called")
	}
	return m.Impl.GetModel(ctx, modelId)
}

func (m *MockClient) CreateModel(ctx context.Context, req apimodels.CreateRequest) (apimodels.Detail, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.CreateModel = append(m.Calls.CreateModel, req)
	m.mu.Unlock()
	if m.Impl.CreateModel == nil {
		m.t.Fatal("CreateModel is not ready to be called")
	}
	return m.Impl.CreateModel(ctx, req)
}

func (m *MockClient) DeleteModel(ctx context.Context, modelId string) error {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.DeleteModel = append(m.Calls.DeleteModel, modelId)
	m.mu.Unlock()
	if m.Impl.DeleteModel == nil {
		m.t.Fatal("DeleteModel is not ready to be called")
	}
	return m.Impl.DeleteModel(ctx, modelId)
}

func (m *MockClient) RetrainModel(ctx context.Context, modelId string) error {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.RetrainModel = append(m.Calls.RetrainModel, modelId)
	m.mu.Unlock()
	if m.Impl.RetrainModel == nil {
		m.t.Fatal("RetrainModel is not ready to be called")
	}
	return m.Impl.RetrainModel(ctx, modelId)
}

func (m *MockClient) GetTrainingResults(ctx context.Context, modelId string) (apimodels.PerformanceData, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetTrainingResults = append(m.Calls.GetTrainingResults, modelId)
	m.mu.Unlock()
	if m.Impl.GetTrainingResults == nil {
		m.t.Fatal("GetTrainingResults is not ready to be called")
	}
	return m.Impl.GetTrainingResults(ctx, modelId)
}

func (m *MockClient) ListTasks(ctx context.Context) (rest.Page[apitasks.Detail], error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.ListTasks = append(m.Calls.ListTasks, struct{}{})
	m.mu.Unlock()
	if m.Impl.ListTasks == nil {
		m.t.Fatal("ListTasks is not ready to be called")
	}
	return m.Impl.ListTasks(ctx)
}

func (m *MockClient) GetTask(ctx context.Context, taskId string) (apitasks.Detail, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetTask = append(m.Calls.GetTask, taskId)
	m.mu.Unlock()
	if m.Impl.GetTask == nil {
		m.t.Fatal("GetTask is not ready to be called")
	}
	return m.Impl.GetTask(ctx, taskId)
}

func (m *MockClient) CreateTask(ctx context.Context, req apitasks.CreateRequest) (apitasks.Detail, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.CreateTask = append(m.Calls.CreateTask, req)
	m.mu.Unlock()
	if m.Impl.CreateTask == nil {
		m.t.Fatal("CreateTask is not ready to be called")
	}
	return m.Impl.CreateTask(ctx, req)
}

func (m *MockClient) ExecuteTask(ctx context.Context, taskId string) error {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.ExecuteTask = append(m.Calls.ExecuteTask, taskId)
	m.mu.Unlock()
	if m.Impl.ExecuteTask == nil {
		m.t.Fatal("ExecuteTask is not ready to be called")
	}
	return m.Impl.ExecuteTask(ctx, taskId)
}

func (m *MockClient) DeleteTask(ctx context.Context, taskId string) error {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.DeleteTask = append(m.Calls.DeleteTask, taskId)
	m.mu.Unlock()
	if m.Impl.DeleteTask == nil {
		m.t.Fatal("DeleteTask is not ready to be called")
	}
	return m.Impl.DeleteTask(ctx, taskId)
}

func (m *MockClient) GetPrediction(ctx context.Context, taskId string) (apitasks.Prediction, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetPrediction = append(m.Calls.GetPrediction, taskId)
	m.mu.Unlock()
	if m.Impl.GetPrediction == nil {
		m.t.Fatal("GetPrediction is not ready to be called")
	}
	return m.Impl.GetPrediction(ctx, taskId)
}

func (m *MockClient) GetDatasetWriters(ctx context.Context, datasetId string) (apitasks.DatasetAnalysis, error) {
	m.t.Helper()

	m.mu.Lock()
	m.Calls.GetDatasetWriters = append(m.Calls.GetDatasetWriters, datasetId)
	m.mu.Unlock()
	if m.Impl.GetDatasetWriters == nil {
		m.t.Fatal("GetDatasetWriters is not ready to be called")
	}
	return m.Impl.GetDatasetWriters(ctx, datasetId)
}
