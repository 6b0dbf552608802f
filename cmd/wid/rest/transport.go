package rest

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/opst/writerid/pkg/buildtime"
	"github.com/rs/zerolog"
)

const HeaderRequestId = "X-Request-Id"

// sessionTransport attaches the bearer token to each request, and expires
// the session on each 401 response.
type sessionTransport struct {
	base    http.RoundTripper
	session Session
	logger  zerolog.Logger
}

func (st *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTripper must not modify the given request.
	req = req.Clone(req.Context())

	req.Header.Set("User-Agent", buildtime.UserAgent())
	if token := st.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	reqId := req.Header.Get(HeaderRequestId)
	if reqId == "" {
		reqId = uuid.NewString()
		req.Header.Set(HeaderRequestId, reqId)
	}

	started := time.Now()
	resp, err := st.base.RoundTrip(req)
	elapsed := time.Since(started)
	if err != nil {
		st.logger.Debug().
			Str("request_id", reqId).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Dur("elapsed", elapsed).
			Err(err).
			Msg("request failed")
		return nil, err
	}

	st.logger.Debug().
		Str("request_id", reqId).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("request")

	if resp.StatusCode == http.StatusUnauthorized {
		st.logger.Info().Str("request_id", reqId).Msg("session is rejected by server")
		st.session.Expire()
	}
	return resp, nil
}
