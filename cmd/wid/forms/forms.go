// Package forms holds operator inputs and validates them before any request.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	apiauth "github.com/opst/writerid/pkg/api/types/auth"
	apidatasets "github.com/opst/writerid/pkg/api/types/datasets"
	apimodels "github.com/opst/writerid/pkg/api/types/models"
	apitasks "github.com/opst/writerid/pkg/api/types/tasks"
)

// MinWriters is the least number of writers a task chooses.
const MinWriters = 5

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid input")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type FieldError struct {
	Field   string
	Message string
}

// InvalidError lists fields which are rejected.
type InvalidError struct {
	Fields []FieldError
}

func (e *InvalidError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func (e *InvalidError) Unwrap() error {
	return ErrInvalid
}

// Message returns the message for the field, or "" if it is accepted.
func (e *InvalidError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ie := &InvalidError{}
	for _, fe := range verrs {
		ie.Fields = append(ie.Fields, FieldError{Field: fieldName(fe), Message: messageOf(fe)})
	}
	return ie
}

// fieldName returns the json name of the field. Slice elements are reported as the slice.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); 0 <= i {
		name = name[:i]
	}
	return name
}

func messageOf(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_unless":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "eqfield":
		return "passwords do not match"
	case "unique":
		return "must not have duplicates"
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}

type Login struct {
	Username string `json:"username" validate:"min=3"`
	Password string `json:"password" validate:"min=6"`
}

func (l Login) Validate() error {
	l.Username = strings.TrimSpace(l.Username)
	return check(l)
}

func (l Login) Request() apiauth.LoginRequest {
	return apiauth.LoginRequest{Username: strings.TrimSpace(l.Username), Password: l.Password}
}

type Register struct {
	FirstName       string `json:"firstName" validate:"min=2"`
	LastName        string `json:"lastName" validate:"min=2"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

func (r Register) normalized() Register {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	return r
}

func (r Register) Validate() error {
	return check(r.normalized())
}

func (r Register) Request() apiauth.RegisterRequest {
	n := r.normalized()
	return apiauth.RegisterRequest{
		FirstName:       n.FirstName,
		LastName:        n.LastName,
		Email:           n.Email,
		Password:        n.Password,
		ConfirmPassword: n.ConfirmPassword,
	}
}

type Dataset struct {
	Name string `json:"name" validate:"required"`
}

func (d Dataset) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	return check(d)
}

func (d Dataset) Request() apidatasets.CreateRequest {
	return apidatasets.CreateRequest{Name: strings.TrimSpace(d.Name)}
}

type Model struct {
	Name      string `json:"name" validate:"required"`
	DatasetId string `json:"datasetId" validate:"required"`
}

func (m Model) normalized() Model {
	m.Name = strings.TrimSpace(m.Name)
	m.DatasetId = strings.TrimSpace(m.DatasetId)
	return m
}

func (m Model) Validate() error {
	return check(m.normalized())
}

func (m Model) Request() apimodels.CreateRequest {
	n := m.normalized()
	return apimodels.CreateRequest{Name: n.Name, DatasetId: n.DatasetId}
}

// Task is the input of a new identification task.
//
// SelectedWriters are writer names, not writer ids.
type Task struct {
	Name             string   `json:"name" validate:"required"`
	Description      string   `json:"description"`
	DatasetId        string   `json:"datasetId" validate:"required"`
	SelectedWriters  []string `json:"selectedWriters" validate:"min=5,unique,dive,required"`
	UseDefaultModel  bool     `json:"useDefaultModel"`
	ModelId          string   `json:"modelId" validate:"required_unless=UseDefaultModel true"`
	QueryImageBase64 string   `json:"queryImageBase64" validate:"required"`
}

func (t Task) normalized() Task {
	t.Name = strings.TrimSpace(t.Name)
	t.Description = strings.TrimSpace(t.Description)
	t.DatasetId = strings.TrimSpace(t.DatasetId)
	t.ModelId = strings.TrimSpace(t.ModelId)
	writers := make([]string, 0, len(t.SelectedWriters))
	for _, w := range t.SelectedWriters {
		writers = append(writers, strings.TrimSpace(w))
	}
	t.SelectedWriters = writers
	return t
}

func (t Task) Validate() error {
	return check(t.normalized())
}

// Request builds the request body. modelId is sent only when a trained model is chosen.
func (t Task) Request() apitasks.CreateRequest {
	n := t.normalized()
	req := apitasks.CreateRequest{
		Name:             n.Name,
		Description:      n.Description,
		DatasetId:        n.DatasetId,
		SelectedWriters:  n.SelectedWriters,
		UseDefaultModel:  n.UseDefaultModel,
		QueryImageBase64: n.QueryImageBase64,
	}
	if !n.UseDefaultModel {
		req.ModelId = n.ModelId
	}
	return req
}
