package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Verbose is an error which can describe itself in detail.
type Verbose interface {
	Verbose() string
}

// CUIError is an error to be shown to the operator.
//
// Error() is the short form. Verbose() adds the cause chain and the
// diagnostic detail, and is shown when --verbose is set.
type CUIError interface {
	error
	Verbose
}

type cuierror struct {
	summary     string
	advice      string
	verbose     string
	printDetail func(summary string) (string, error)
	base        error
}

func (ce *cuierror) Unwrap() error {
	return ce.base
}

func (ce *cuierror) Error() string {
	message := ce.summary
	if ce.printDetail != nil {
		m, err := ce.printDetail(ce.summary)
		if err != nil {
			m = fmt.Sprintf(
				"%s\n(building detailed message causes error: %s)",
				ce.summary, err.Error(),
			)
		}
		message = m
	}
	if ce.advice != "" {
		message += "\n" + ce.advice
	}
	return message
}

func (ce *cuierror) Verbose() string {
	message := []string{ce.Error()}
	if ce.verbose != "" {
		message = append(message, " ("+ce.verbose+") ")
	}

	var v Verbose
	switch {
	case ce.base == nil:
	case errors.As(ce.base, &v):
		message = append(message, "caused by: ", v.Verbose())
	default:
		message = append(message, "caused by: ", ce.base.Error())
	}
	return strings.Join(message, "\n")
}

type CuiErrorOption func(cerr *cuierror) *cuierror

func NewCuiError(summary string, options ...CuiErrorOption) CUIError {
	err := &cuierror{summary: summary}
	for _, o := range options {
		err = o(err)
	}
	return err
}

// WithVerbose sets diagnostic detail, like a raw response body.
func WithVerbose(verbose string) CuiErrorOption {
	return func(cerr *cuierror) *cuierror {
		cerr.verbose = verbose
		return cerr
	}
}

func WithDetail(printer func(summary string) (string, error)) CuiErrorOption {
	return func(cerr *cuierror) *cuierror {
		cerr.printDetail = printer
		return cerr
	}
}

// WithAdvice tells the operator what to do next.
func WithAdvice(advice string) CuiErrorOption {
	return func(cerr *cuierror) *cuierror {
		cerr.advice = advice
		return cerr
	}
}

func WithCause(err error) CuiErrorOption {
	return func(cerr *cuierror) *cuierror {
		cerr.base = err
		return cerr
	}
}

// Describe formats err for the terminal.
func Describe(err error, verbose bool) string {
	if err == nil {
		return ""
	}
	if !verbose {
		return err.Error()
	}
	var v Verbose
	if errors.As(err, &v) {
		return v.Verbose()
	}
	return err.Error()
}
