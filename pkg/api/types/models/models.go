package models

import (
	"github.com/opst/writerid/pkg/api/types/status"
	"github.com/opst/writerid/pkg/utils/rfctime"
)

// Detail is a writer-identification model.
type Detail struct {
	Id               string           `json:"id"`
	Name             string           `json:"name"`
	Description      string           `json:"description,omitempty"`
	Algorithm        string           `json:"algorithm,omitempty"`
	Status           status.Status    `json:"status"`
	Accuracy         *float64         `json:"accuracy,omitempty"`
	DatasetId        string           `json:"datasetId,omitempty"`
	TrainedOn        string           `json:"trainedOn,omitempty"`
	TrainingProgress *float64         `json:"trainingProgress,omitempty"`
	CreatedAt        rfctime.RFC3339  `json:"createdAt"`
	UpdatedAt        rfctime.RFC3339  `json:"updatedAt"`
	PerformanceData  *PerformanceData `json:"performanceData,omitempty"`
}

func (m Detail) Key() string {
	return m.Id
}

func (m Detail) StatusOf() status.Status {
	return m.Status
}

func (m Detail) WithStatus(s status.Status) Detail {
	m.Status = s
	return m
}

// PerformanceData is the training report of a model.
type PerformanceData struct {
	DatasetPath       string  `json:"dataset_path"`
	Accuracy          float64 `json:"accuracy"`
	F1Score           float64 `json:"f1_score"`
	Precision         float64 `json:"precision"`
	Recall            float64 `json:"recall"`
	ConfusionMatrix   [][]int `json:"confusion_matrix"`
	Time              float64 `json:"time"`
	RequestedEpisodes int     `json:"requested_episodes"`
	ActualEpisodesRun int     `json:"actual_episodes_run"`
	OptimalValEpisode int     `json:"optimal_val_episode"`
	BestValAccuracy   float64 `json:"best_val_accuracy"`
	Backbone          string  `json:"backbone"`
	Error             *string `json:"error"`
}

type CreateRequest struct {
	Name      string `json:"name"`
	DatasetId string `json:"datasetId"`
}
