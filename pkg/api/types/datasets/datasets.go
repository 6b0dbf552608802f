package datasets

import (
	"encoding/json"

	"github.com/opst/writerid/pkg/api/types/status"
	"github.com/opst/writerid/pkg/utils/rfctime"
)

// Detail is a dataset of handwriting samples.
type Detail struct {
	Id        string          `json:"id"`
	Name      string          `json:"name"`
	Status    status.Status   `json:"status"`
	CreatedAt rfctime.RFC3339 `json:"createdAt"`
	UpdatedAt rfctime.RFC3339 `json:"updatedAt"`
	FileCount int             `json:"fileCount,omitempty"`
	FileSize  int64           `json:"fileSize,omitempty"`

	// upload URL. It is only returned once, on creation.
	SasUrl string `json:"sasUrl,omitempty"`
}

func (d Detail) Key() string {
	return d.Id
}

func (d Detail) StatusOf() status.Status {
	return d.Status
}

func (d Detail) WithStatus(s status.Status) Detail {
	d.Status = s
	return d
}

type CreateRequest struct {
	Name string `json:"name"`
}

// AnalysisResults is the outcome of the writer analysis over a dataset.
type AnalysisResults struct {
	Id          string          `json:"id"`
	DatasetId   string          `json:"datasetId"`
	Status      string          `json:"status"`
	Results     json.RawMessage `json:"results,omitempty"`
	CompletedAt rfctime.RFC3339 `json:"completedAt"`
	Error       string          `json:"error,omitempty"`
}

// AccessURL is a time-limited upload URL for a dataset.
type AccessURL struct {
	SasUrl    string          `json:"sasUrl"`
	ExpiresAt rfctime.RFC3339 `json:"expiresAt"`
}
