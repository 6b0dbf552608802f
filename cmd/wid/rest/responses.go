package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	cerr "github.com/opst/writerid/cmd/wid/errors"
	apierr "github.com/opst/writerid/pkg/api/types/errors"
)

// ErrUnauthorized is wrapped by errors caused by 401 responses.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConnection is wrapped by errors caused before any response.
var ErrConnection = errors.New("cannot reach server")

// APIError is an error response from the API.
type APIError struct {
	StatusCode int

	// Message is the reason told by the server. It can be empty.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed (status code = %d)", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// ServerMessage returns the reason told by the server in err, or "".
func ServerMessage(err error) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}

// StatusCodeOf returns the HTTP status of the response which caused err, or 0.
func StatusCodeOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	return 0
}

func connectionError(method string, url string, err error) error {
	return cerr.NewCuiError(
		fmt.Sprintf("%s: %s %s", ErrConnection, method, url),
		cerr.WithCause(errors.Join(ErrConnection, err)),
		cerr.WithAdvice("check apiRoot of your profile, or network connection."),
	)
}

type MessageFor map[StatusCodeRange]string

// read http response which has json content.
//
// args:
//   - resp: http response to be processed.
//   - v: value which response should be. If nil, payload is discarded.
//   - messageFor: title of error message for HTTP status code range.
//
// return:
//
//	error if...
//	- can not read response body
//	- response body is not shaped of v
//	- status code is not in 2xx
func unmarshalJsonResponse[T any](resp *http.Response, v *T, messageFor MessageFor) error {
	body, err := readResponse(resp, messageFor)
	if err != nil {
		return err
	}
	if v == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return cerr.NewCuiError(
			fmt.Sprintf("unexpected response: %s (status code = %d)", err.Error(), resp.StatusCode),
			cerr.WithCause(err),
			cerr.WithVerbose(string(body)),
		)
	}
	return nil
}

// read whole of response body if it is successful.
//
// Otherwise, it returns error carrying *APIError.
func readResponse(resp *http.Response, messageFor MessageFor) ([]byte, error) {
	body, readErr := io.ReadAll(resp.Body)

	scr := StatusCodeRangeOf(resp)
	if scr == Status2xx {
		if readErr != nil {
			return nil, cerr.NewCuiError(
				fmt.Sprintf("cannot read response: %s", readErr.Error()),
				cerr.WithCause(readErr),
			)
		}
		return body, nil
	}

	title, ok := messageFor[scr]
	if !ok {
		title = scr.String()
	}
	if resp.StatusCode == http.StatusUnauthorized {
		title = "session is expired or invalid"
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if readErr == nil {
		apiErr.Message = apierr.Extract(body)
	}

	options := []cerr.CuiErrorOption{
		cerr.WithCause(apiErr),
		cerr.WithDetail(func(summary string) (string, error) {
			return summary + "\n" + apiErr.Error(), nil
		}),
		cerr.WithVerbose(describeRequest(resp) + string(body)),
	}
	if resp.StatusCode == http.StatusUnauthorized {
		options = append(options, cerr.WithAdvice("sign in again with `wid login`."))
	}
	return nil, cerr.NewCuiError(title, options...)
}

func describeRequest(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	return fmt.Sprintf("%s %s: ", resp.Request.Method, resp.Request.URL.Path)
}
