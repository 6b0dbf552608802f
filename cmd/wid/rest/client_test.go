package rest_test

import (
	"context"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/opst/writerid/cmd/wid/config/profiles"
	"github.com/opst/writerid/cmd/wid/rest"
	"github.com/opst/writerid/pkg/buildtime"
)

type fakeSession struct {
	mu      sync.Mutex
	token   string
	expired int
}

func (fs *fakeSession) Token() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.token
}

func (fs *fakeSession) Expire() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.token = ""
	fs.expired++
}

func newClient(t *testing.T, srv *httptest.Server, sess rest.Session) rest.Client {
	t.Helper()
	c, err := rest.NewClient(&profiles.Profile{ApiRoot: srv.URL}, sess)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestClient_Session(t *testing.T) {
	t.Run("when the session has a token, requests carry it as bearer", func(t *testing.T) {
		var authz, reqId, ua string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz = r.Header.Get("Authorization")
			reqId = r.Header.Get(rest.HeaderRequestId)
			ua = r.Header.Get("User-Agent")
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		testee := newClient(t, srv, &fakeSession{token: "tkn"})
		if _, err := testee.ListDatasets(context.Background()); err != nil {
			t.Fatal(err)
		}
		if authz != "Bearer tkn" {
			t.Errorf("wrong authorization header: %q", authz)
		}
		if reqId == "" {
			t.Errorf("request id is not set")
		}
		if ua != buildtime.UserAgent() {
			t.Errorf("wrong user agent: %q", ua)
		}
	})

	t.Run("when the session has no token, requests carry no authorization", func(t *testing.T) {
		var hasAuthz bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, hasAuthz = r.Header["Authorization"]
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		testee := newClient(t, srv, &fakeSession{})
		if _, err := testee.ListModels(context.Background()); err != nil {
			t.Fatal(err)
		}
		if hasAuthz {
			t.Errorf("authorization header is sent")
		}
	})

	t.Run("when the server answers 401, it expires the session once and returns ErrUnauthorized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"title": "Unauthorized"}`))
		}))
		defer srv.Close()

		sess := &fakeSession{token: "stale"}
		testee := newClient(t, srv, sess)

		_, err := testee.GetStats(context.Background())
		if !errors.Is(err, rest.ErrUnauthorized) {
			t.Fatalf("unexpected error: %v", err)
		}
		if sess.expired != 1 {
			t.Errorf("session is expired %d times", sess.expired)
		}
		if rest.StatusCodeOf(err) != http.StatusUnauthorized {
			t.Errorf("wrong status code: %d", rest.StatusCodeOf(err))
		}

		// every 401 response expires the session.
		testee.DeleteTask(context.Background(), "t1")
		if sess.expired != 2 {
			t.Errorf("session is expired %d times", sess.expired)
		}
	})

	t.Run("when the server answers other errors, the session is kept", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		sess := &fakeSession{token: "tkn"}
		testee := newClient(t, srv, sess)
		if err := testee.DeleteDataset(context.Background(), "d1"); err == nil {
			t.Fatal("expected error")
		}
		if sess.expired != 0 || sess.Token() != "tkn" {
			t.Errorf("session is touched: %+v", sess)
		}
	})

	t.Run("when session is nil, it works without token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		testee := newClient(t, srv, nil)
		if _, err := testee.GetStats(context.Background()); err != nil {
			t.Fatal(err)
		}
	})
}

func TestClient_Errors(t *testing.T) {
	type when struct {
		status int
		body   string
	}
	type then struct {
		serverMessage string
		errorText     string
	}

	theory := func(when when, then then) func(*testing.T) {
		return func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(when.status)
				w.Write([]byte(when.body))
			}))
			defer srv.Close()

			testee := newClient(t, srv, &fakeSession{token: "t"})
			err := testee.StartAnalysis(context.Background(), "d1")
			if err == nil {
				t.Fatal("expected error")
			}
			if actual := rest.ServerMessage(err); actual != then.serverMessage {
				t.Errorf("server message: (actual, expected) = (%q, %q)", actual, then.serverMessage)
			}

			var apiErr *rest.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error does not carry APIError: %v", err)
			}
			if apiErr.Error() != then.errorText {
				t.Errorf("error text: (actual, expected) = (%q, %q)", apiErr.Error(), then.errorText)
			}
		}
	}

	t.Run("when the body has title, it is the server message", theory(
		when{status: 400, body: `{"title": "Dataset is already analyzed"}`},
		then{serverMessage: "Dataset is already analyzed", errorText: "Dataset is already analyzed"},
	))
	t.Run("when the body has message, it is the server message", theory(
		when{status: 409, body: `{"message": "busy"}`},
		then{serverMessage: "busy", errorText: "busy"},
	))
	t.Run("when the body has nothing readable, a generic text is used", theory(
		when{status: 500, body: ``},
		then{serverMessage: "", errorText: "request failed (status code = 500)"},
	))
}

func TestClient_ConnectionError(t *testing.T) {
	t.Run("when the server is not reachable, it returns ErrConnection", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		testee, err := rest.NewClient(&profiles.Profile{ApiRoot: url}, nil)
		if err != nil {
			t.Fatal(err)
		}
		_, err = testee.ListTasks(context.Background())
		if !errors.Is(err, rest.ErrConnection) {
			t.Errorf("unexpected error: %v", err)
		}
		if rest.ServerMessage(err) != "" {
			t.Errorf("connection error should not have server message")
		}
	})
}

func TestClient_TrustCA(t *testing.T) {
	t.Run("when the profile has CA of the server, TLS handshake succeeds", func(t *testing.T) {
		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"totalTasks": 3}`))
		}))
		defer srv.Close()

		ca := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
		prof := &profiles.Profile{
			ApiRoot: srv.URL,
			Cert:    profiles.Cert{CA: base64.StdEncoding.EncodeToString(ca)},
		}
		testee, err := rest.NewClient(prof, nil)
		if err != nil {
			t.Fatal(err)
		}
		stats, err := testee.GetStats(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if stats.TotalTasks != 3 {
			t.Errorf("unexpected stats: %+v", stats)
		}
	})

	t.Run("when the profile is invalid, NewClient returns ErrProfileInvalid", func(t *testing.T) {
		_, err := rest.NewClient(&profiles.Profile{ApiRoot: "not a url"}, nil)
		if !errors.Is(err, profiles.ErrProfileInvalid) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
