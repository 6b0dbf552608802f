// Package fakeapi is an in-memory writer identification API for tests.
//
// Jobs (analysis, training and identification) finish as soon as they are
// requested.
package fakeapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	apiauth "github.com/opst/writerid/pkg/api/types/auth"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	apierr "github.com/opst/writerid/pkg/api/types/errors"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	"github.com/opst/writerid/pkg/api/types/status"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
	"github.com/opst/writerid/pkg/utils/echoutil"
	"github.com/opst/writerid/pkg/utils/rfctime"
)

type account struct {
	user     apiauth.User
	password string
}

type Server struct {
	e      *echo.Echo
	secret []byte
	now    func() time.Time

	mu         sync.Mutex
	generation int
	seq        int
	accounts   map[string]account
	datasets   []apidatasets.Detail
	writers    map[string][]string
	models     []apimodels.Detail
	tasks      []apitasks.Detail
	requests   []string
}

type Option func(*Server) *Server

// WithClock replaces the clock used for timestamps and token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) *Server {
		s.now = now
		return s
	}
}

// WithLogLevel sets the level of the request log. It is "off" by default.
func WithLogLevel(level string) Option {
	return func(s *Server) *Server {
		echoutil.SetLevel(s.e, level)
		return s
	}
}

func New(options ...Option) *Server {
	s := &Server{
		e:        echo.New(),
		secret:   []byte(uuid.NewString()),
		now:      time.Now,
		accounts: map[string]account{},
		writers:  map[string][]string{},
	}
	s.e.HideBanner = true
	s.e.HidePort = true
	echoutil.SetLevel(s.e, "off")
	s.e.Use(echoutil.LogHandlerFunc)
	s.e.Use(s.record)

	for _, opt := range options {
		s = opt(s)
	}
	s.routes()
	return s
}

// Start serves the API until the test ends.
//
// The returned URL is the apiRoot for profiles.
func (s *Server) Start(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(s.e)
	t.Cleanup(ts.Close)
	return ts.URL
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *Server) routes() {
	v1 := s.e.Group("/api/v1")

	v1.POST("/Auth/login", s.login)
	v1.POST("/Auth/register", s.register)

	g := v1.Group("", s.authenticate)
	g.GET("/Dashboard/stats", s.stats)

	g.GET("/Datasets", s.listDatasets)
	g.POST("/Datasets", s.createDataset)
	g.DELETE("/Datasets/:id", s.deleteDataset)
	g.POST("/Datasets/:id/analyze", s.analyze)
	g.GET("/Datasets/:id/analysis-results", s.analysisResults)
	g.POST("/Datasets/:id/access-url", s.accessURL)

	g.GET("/models", s.listModels)
	g.POST("/models", s.createModel)
	g.GET("/models/:id", s.getModel)
	g.DELETE("/models/:id", s.deleteModel)
	g.POST("/models/:id/retrain", s.retrain)
	g.GET("/models/:id/training-results", s.trainingResults)

	g.GET("/Tasks", s.listTasks)
	g.POST("/Tasks", s.createTask)
	g.GET("/Tasks/:id", s.getTask)
	g.DELETE("/Tasks/:id", s.deleteTask)
	g.POST("/Tasks/:id/execute", s.execute)
	g.GET("/Tasks/:id/prediction", s.prediction)
	g.GET("/Tasks/dataset/:id/analysis", s.datasetWriters)
}

// Requests returns "METHOD path" of requests served so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.requests = append(s.requests, c.Request().Method+" "+c.Request().URL.Path)
		s.mu.Unlock()
		return next(c)
	}
}

// AddUser registers an account directly.
func (s *Server) AddUser(email, password, firstName, lastName string) apiauth.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUser(email, password, firstName, lastName)
}

func (s *Server) addUser(email, password, firstName, lastName string) apiauth.User {
	u := apiauth.User{
		Id: s.nextId("u"), Email: email, FirstName: firstName, LastName: lastName,
	}
	s.accounts[strings.ToLower(email)] = account{user: u, password: password}
	return u
}

// AddDataset stores a dataset.
//
// When writers are given, the dataset is analyzed already.
func (s *Server) AddDataset(name string, writers ...string) apidatasets.Detail {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.newDataset(name)
	if 0 < len(writers) {
		d.Status = status.Completed
		s.writers[d.Id] = writers
	}
	s.datasets = append(s.datasets, d)
	return d
}

// Revoke invalidates all tokens issued so far.
func (s *Server) Revoke() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation += 1
}

func (s *Server) nextId(prefix string) string {
	s.seq += 1
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

func (s *Server) timestamp() rfctime.RFC3339 {
	return rfctime.RFC3339(s.now().UTC().Truncate(time.Second))
}

type claims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Generation int    `json:"gen"`
}

func (s *Server) issue(u apiauth.User) (string, error) {
	now := s.now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email:      u.Email,
		GivenName:  u.FirstName,
		FamilyName: u.LastName,
		Generation: s.generation,
	}).SignedString(s.secret)
}

func (s *Server) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		bearer, ok := strings.CutPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
		if !ok {
			return apierr.Unauthorized()
		}
		cl := claims{}
		_, err := jwt.ParseWithClaims(
			bearer, &cl,
			func(*jwt.Token) (any, error) { return s.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithTimeFunc(s.now),
		)
		if err != nil {
			return apierr.Unauthorized()
		}

		s.mu.Lock()
		revoked := cl.Generation != s.generation
		s.mu.Unlock()
		if revoked {
			return apierr.Unauthorized()
		}
		return next(c)
	}
}

func (s *Server) login(c echo.Context) error {
	req := apiauth.LoginRequest{}
	if err := c.Bind(&req); err != nil {
		return apierr.BadRequest("can not understand the requested json")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[strings.ToLower(req.Username)]
	if !ok || a.password != req.Password {
		return apierr.NewErrorMessage(http.StatusUnauthorized, "Invalid credentials")
	}
	token, err := s.issue(a.user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"token": token, "user": a.user})
}

func (s *Server) register(c echo.Context) error {
	req := apiauth.RegisterRequest{}
	if err := c.Bind(&req); err != nil {
		return apierr.BadRequest("can not understand the requested json")
	}
	if req.Email == "" || req.Password == "" {
		return apierr.NewErrorMessage(http.StatusBadRequest, "Email and password are required")
	}
	if req.Password != req.ConfirmPassword {
		return apierr.NewErrorMessage(http.StatusBadRequest, "Passwords do not match")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[strings.ToLower(req.Email)]; ok {
		return apierr.Conflict("Email is already registered")
	}
	s.addUser(req.Email, req.Password, req.FirstName, req.LastName)
	return c.NoContent(http.StatusCreated)
}
