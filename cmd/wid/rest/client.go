package rest

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/opst/writerid/cmd/wid/config/profiles"
	apiauth "github.com/opst/writerid/pkg/api/types/auth"
	apidashboard "github.com/opst/writerid/pkg/api/types/dashboard"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/rs/zerolog"
)

// Session is the signed-in state the client works on behalf of.
type Session interface {
	// Token returns the bearer token, or "" if there is none.
	Token() string

	// Expire is called when the server answers 401.
	// It should forget the token and move the operator to login.
	Expire()
}

// NoSession is a Session which never has a token.
var NoSession Session = noSession{}

type noSession struct{}

func (noSession) Token() string { return "" }
func (noSession) Expire()       {}

// Page is a list returned by the API.
type Page[T any] struct {
	Items []T
	Total int
}

// Client talks to the writer identification API.
type Client interface {
	// Login exchanges credentials for a token and the user profile.
	Login(ctx context.Context, req apiauth.LoginRequest) (apiauth.Session, error)

	// Register creates an account. It does not sign in.
	Register(ctx context.Context, req apiauth.RegisterRequest) error

	GetStats(ctx context.Context) (apidashboard.Stats, error)

	ListDatasets(ctx context.Context) (Page[apidatasets.Detail], error)

	// CreateDataset returns the new dataset with its one-time upload URL.
	CreateDataset(ctx context.Context, name string) (apidatasets.Detail, error)
	DeleteDataset(ctx context.Context, datasetId string) error

	// StartAnalysis asks the server to analyze writers in the dataset.
	StartAnalysis(ctx context.Context, datasetId string) error
	GetAnalysisResults(ctx context.Context, datasetId string) (apidatasets.AnalysisResults, error)
	GenerateAccessURL(ctx context.Context, datasetId string) (apidatasets.AccessURL, error)

	ListModels(ctx context.Context) (Page[apimodels.Detail], error)
	GetModel(ctx context.Context, modelId string) (apimodels.Detail, error)
	CreateModel(ctx context.Context, req apimodels.CreateRequest) (apimodels.Detail, error)
	DeleteModel(ctx context.Context, modelId string) error
	RetrainModel(ctx context.Context, modelId string) error
	GetTrainingResults(ctx context.Context, modelId string) (apimodels.PerformanceData, error)

	ListTasks(ctx context.Context) (Page[apitasks.Detail], error)
	GetTask(ctx context.Context, taskId string) (apitasks.Detail, error)
	CreateTask(ctx context.Context, req apitasks.CreateRequest) (apitasks.Detail, error)
	ExecuteTask(ctx context.Context, taskId string) error
	DeleteTask(ctx context.Context, taskId string) error
	GetPrediction(ctx context.Context, taskId string) (apitasks.Prediction, error)

	// GetDatasetWriters lists writers which can be chosen for a task.
	GetDatasetWriters(ctx context.Context, datasetId string) (apitasks.DatasetAnalysis, error)
}

type client struct {
	httpclient *http.Client
	api        string
	logger     zerolog.Logger
}

type Option func(*clientOption) *clientOption

type clientOption struct {
	logger    zerolog.Logger
	transport http.RoundTripper
}

// WithLogger sets the logger tracing requests.
func WithLogger(logger zerolog.Logger) Option {
	return func(co *clientOption) *clientOption {
		co.logger = logger
		return co
	}
}

// WithTransport replaces the underlying transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(co *clientOption) *clientOption {
		co.transport = rt
		return co
	}
}

// NewClient creates a client for the API described by prof.
//
// # Args
//
// - *profiles.Profile
//
// - Session: token source and 401 handler. nil means NoSession.
//
// # Return
//
// - Client
//
// - error: If given profile is invalid, ErrProfileInvalid is returned.
func NewClient(prof *profiles.Profile, sess Session, options ...Option) (Client, error) {
	if err := prof.Verify(); err != nil {
		return nil, err
	}
	if sess == nil {
		sess = NoSession
	}

	opt := &clientOption{logger: zerolog.Nop()}
	for _, o := range options {
		opt = o(opt)
	}

	base := opt.transport
	if base == nil {
		base = http.DefaultTransport
	}
	if prof.Cert.CA != "" {
		b, err := trustCa(base, []string{prof.Cert.CA})
		if err != nil {
			return nil, err
		}
		base = b
	}

	return &client{
		httpclient: &http.Client{
			Transport: &sessionTransport{base: base, session: sess, logger: opt.logger},
		},
		api:    strings.TrimSuffix(prof.ApiRoot, "/"),
		logger: opt.logger,
	}, nil
}

// build URL with path
func (c *client) apipath(path ...string) string {
	elems := []string{c.api, "api", "v1"}
	for _, p := range path {
		elems = append(elems, strings.Trim(p, "/"))
	}
	return strings.Join(elems, "/")
}

// send a request and return the response.
//
// When body is not nil, it is sent as JSON.
func (c *client) do(ctx context.Context, method string, url string, body any) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return nil, connectionError(method, url, err)
	}
	return resp, nil
}

func trustCa(rt http.RoundTripper, cacerts []string) (http.RoundTripper, error) {
	if len(cacerts) <= 0 {
		return rt, nil
	}

	tran, ok := rt.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("failed to add ca cert")
	}
	tran = tran.Clone()

	tcc := tran.TLSClientConfig.Clone()
	if tcc == nil {
		tcc = &tls.Config{}
	}

	rootcas := tcc.RootCAs
	if rootcas == nil {
		if sys, err := x509.SystemCertPool(); err == nil {
			rootcas = sys
		} else {
			rootcas = x509.NewCertPool()
		}
		tcc.RootCAs = rootcas
	}
	for _, ca := range cacerts {
		bin, err := base64.StdEncoding.DecodeString(ca)
		if err != nil {
			return nil, err
		}
		if !rootcas.AppendCertsFromPEM(bin) {
			return nil, fmt.Errorf("failed to add cert")
		}
	}

	tran.TLSClientConfig = tcc
	return tran, nil
}
