package tasks

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/opst/writerid/pkg/api/types/status"
	"github.com/opst/writerid/pkg/utils/rfctime"
)

// Ref is an identifier of another resource.
//
// The API sends it as a number in some responses and as a GUID string in
// others. Both are read as string.
type Ref string

func (r *Ref) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*r = Ref(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*r = Ref(s)
	return nil
}

// Detail is an identification task: which writer wrote the query image.
type Detail struct {
	Id               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	DatasetId        Ref             `json:"datasetId,omitempty"`
	ModelId          Ref             `json:"modelId,omitempty"`
	DatasetName      string          `json:"datasetName,omitempty"`
	ModelName        string          `json:"modelName,omitempty"`
	Status           status.Status   `json:"status"`
	CreatedAt        rfctime.RFC3339 `json:"createdAt"`
	UpdatedAt        rfctime.RFC3339 `json:"updatedAt"`
	Accuracy         *float64        `json:"accuracy,omitempty"`
	WriterIdentified string          `json:"writerIdentified,omitempty"`
	SelectedWriters  []string        `json:"selectedWriters,omitempty"`
	QueryImageBase64 string          `json:"queryImageBase64,omitempty"`
}

func (t Detail) Key() string {
	return t.Id
}

func (t Detail) StatusOf() status.Status {
	return t.Status
}

func (t Detail) WithStatus(s status.Status) Detail {
	t.Status = s
	return t
}

// CreateRequest is the body of a task creation.
type CreateRequest struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	DatasetId        string   `json:"datasetId"`
	SelectedWriters  []string `json:"selectedWriters"`
	UseDefaultModel  bool     `json:"useDefaultModel"`
	ModelId          string   `json:"modelId,omitempty"`
	QueryImageBase64 string   `json:"queryImageBase64"`
}

// Writer is a candidate writer found in a dataset.
type Writer struct {
	WriterId    string  `json:"writerId"`
	WriterName  string  `json:"writerName"`
	SampleCount int     `json:"sampleCount"`
	Confidence  float64 `json:"confidence"`
}

// DatasetAnalysis lists the writers available in a dataset.
type DatasetAnalysis struct {
	DatasetId   string          `json:"datasetId"`
	DatasetName string          `json:"datasetName"`
	Status      string          `json:"status"`
	WriterNames []string        `json:"writer_names"`
	Writers     []Writer        `json:"writers"`
	AnalyzedAt  rfctime.RFC3339 `json:"analyzedAt"`
}

// Prediction is the outcome of an executed task.
//
// Fields the client does not know are kept in Raw.
type Prediction struct {
	TaskId           string             `json:"taskId,omitempty"`
	WriterIdentified string             `json:"writerIdentified,omitempty"`
	Confidence       *float64           `json:"confidence,omitempty"`
	Scores           map[string]float64 `json:"scores,omitempty"`

	Raw json.RawMessage `json:"-"`
}

func (p *Prediction) UnmarshalJSON(b []byte) error {
	type plain Prediction
	v := plain{}
	if err := json.Unmarshal(b, &v); err != nil {
		// not an object. keep it as is.
		*p = Prediction{Raw: append(json.RawMessage(nil), b...)}
		return nil
	}
	*p = Prediction(v)
	p.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// ConfidenceString formats confidence as percentage, or "-".
func (p Prediction) ConfidenceString() string {
	if p.Confidence == nil {
		return "-"
	}
	c := *p.Confidence
	if c <= 1 {
		c *= 100
	}
	return strconv.FormatFloat(c, 'f', 1, 64) + "%"
}
