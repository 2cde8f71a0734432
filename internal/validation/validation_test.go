package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/movies-graphql/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string `json:"name" validate:"required,max=5"`
	Count int    `json:"count" validate:"min=1"`
}

func (r *sampleRequest) Validate() error {
	return ValidateStruct(r)
}

type customRequest struct{}

func (r *customRequest) Validate() error {
	return CustomValidationErrors{{Field: "query", Message: "must not be blank"}}
}

func newContext(body string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	return httpErr
}

func TestBindAndValidateOK(t *testing.T) {
	req := &sampleRequest{}

	require.NoError(t, BindAndValidate(newContext(`{"name":"ok","count":2}`), req))
	assert.Equal(t, "ok", req.Name)
}

func TestBindAndValidateMalformedJSON(t *testing.T) {
	httpErr := requireHTTPError(t, BindAndValidate(newContext(`{"name":`), &sampleRequest{}))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.NotEmpty(t, httpErr.Message)
	assert.Empty(t, httpErr.Errors)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	httpErr := requireHTTPError(t, BindAndValidate(newContext(`{"name":"toolong","count":0}`), &sampleRequest{}))

	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "name", Error: "must not exceed 5 characters"},
		{Field: "count", Error: "must be at least 1"},
	}, httpErr.Errors)
}

func TestBindAndValidateRequired(t *testing.T) {
	httpErr := requireHTTPError(t, BindAndValidate(newContext(`{"count":1}`), &sampleRequest{}))

	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, errs.FieldError{Field: "name", Error: "is required"}, httpErr.Errors[0])
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	httpErr := requireHTTPError(t, BindAndValidate(newContext(`{}`), &customRequest{}))

	assert.Equal(t, []errs.FieldError{{Field: "query", Error: "must not be blank"}}, httpErr.Errors)
}
