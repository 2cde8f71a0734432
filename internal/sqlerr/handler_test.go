package sqlerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/movies-graphql/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleErrorNotNull(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:   "ERROR",
		Code:       "23502",
		Message:    `null value in column "title" violates not-null constraint`,
		TableName:  "movies",
		ColumnName: "title",
	}

	httpErr := asHTTPError(t, HandleError(fmt.Errorf("failed to insert movie: %w", pgErr)))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "MOVIE_REQUIRED", httpErr.Code)
	assert.Equal(t, "The Title is required", httpErr.Message)
	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, "title", httpErr.Errors[0].Field)
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23505",
		TableName:      "movies",
		ConstraintName: "movies_title_key",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "MOVIE_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A Movie with this Title already exists", httpErr.Message)
}

func TestHandleErrorOutOfRange(t *testing.T) {
	pgErr := &pgconn.PgError{Severity: "ERROR", Code: "22003", TableName: "movies", ColumnName: "minutes"}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "MOVIE_INVALID", httpErr.Code)
}

func TestHandleErrorUnknownPgErrorIsOpaque(t *testing.T) {
	pgErr := &pgconn.PgError{Severity: "FATAL", Code: "XX000", Message: "internal detail"}

	httpErr := asHTTPError(t, HandleError(pgErr))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.NotContains(t, httpErr.Message, "internal detail")
}

func TestHandleErrorNoRows(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(fmt.Errorf("table:movies: %w", pgx.ErrNoRows)))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Movie not found", httpErr.Message)

	httpErr = asHTTPError(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorPassThrough(t *testing.T) {
	original := errs.NewNotFoundError("gone", true, nil)
	assert.Same(t, original, HandleError(original))
}

func TestHandleErrorConnectionLoss(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("dial tcp 10.0.0.1:5432: connect: connection refused")))

	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, "Internal Server Error", httpErr.Message)
}

func TestErrCode(t *testing.T) {
	converted := ConvertPgError(&pgconn.PgError{Code: "23505", Severity: "ERROR"})

	assert.Equal(t, UniqueViolation, ErrCode(fmt.Errorf("wrapped: %w", converted)))
	assert.Equal(t, Other, ErrCode(errors.New("plain")))
	assert.Equal(t, SeverityError, converted.Severity)

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(converted, &pgErr))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "title", extractColumnForUniqueViolation("unique_movies_title"))
	assert.Equal(t, "title", extractColumnForUniqueViolation("movies_title_key"))
	assert.Equal(t, "", extractColumnForUniqueViolation("movies_pkey"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
}
