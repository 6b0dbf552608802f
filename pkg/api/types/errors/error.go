package errors

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ErrorMessage is the error body sent by the API.
//
// The API is not consistent about the field carrying the reason; any of
// them may be set.
type ErrorMessage struct {
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
	Error_  string `json:"error,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Status  int    `json:"status,omitempty"`
}

// Text returns the most specific reason in the message.
//
// It returns "" when none is set.
func (e ErrorMessage) Text() string {
	for _, s := range []string{e.Title, e.Message, e.Detail, e.Error_, e.Reason} {
		if s := strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func (e ErrorMessage) Error() string {
	return e.Text()
}

// Extract the human readable reason from an error response body.
//
// JSON bodies are searched for the known fields. A short plain text body is
// returned as is. Otherwise, "" is returned.
func Extract(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	em := ErrorMessage{}
	if err := json.Unmarshal(body, &em); err == nil {
		return em.Text()
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return strings.TrimSpace(s)
	}

	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "<") {
		return ""
	}
	return trimmed
}

// NewErrorMessage builds an echo error whose body is an ErrorMessage.
func NewErrorMessage(code int, title string) *echo.HTTPError {
	return echo.NewHTTPError(code, ErrorMessage{Title: title, Status: code})
}

func NotFound() *echo.HTTPError {
	return NewErrorMessage(http.StatusNotFound, "not found")
}

func BadRequest(message string) *echo.HTTPError {
	return NewErrorMessage(http.StatusBadRequest, message)
}

func Unauthorized() *echo.HTTPError {
	return NewErrorMessage(http.StatusUnauthorized, "unauthorized")
}

func Conflict(message string) *echo.HTTPError {
	return NewErrorMessage(http.StatusConflict, message)
}
