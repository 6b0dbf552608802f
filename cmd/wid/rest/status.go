package rest

import (
	"net/http"
	"strconv"
)

// StatusCodeRange is the class of an HTTP status code, like 4xx.
type StatusCodeRange int

const (
	StatusUnknown StatusCodeRange = iota
	Status1xx
	Status2xx
	Status3xx
	Status4xx
	Status5xx
)

var rangeNames = map[StatusCodeRange]string{
	Status1xx: "informational response",
	Status2xx: "success",
	Status3xx: "redirect",
	Status4xx: "client error",
	Status5xx: "server error",
}

func (sc StatusCodeRange) String() string {
	if name, ok := rangeNames[sc]; ok {
		return name
	}
	return "unknown (" + strconv.Itoa(int(sc)) + ")"
}

func StatusCodeRangeOf(resp *http.Response) StatusCodeRange {
	return rangeOf(resp.StatusCode)
}

func rangeOf(code int) StatusCodeRange {
	if code < 100 || 600 <= code {
		return StatusUnknown
	}
	return StatusCodeRange(code / 100)
}
