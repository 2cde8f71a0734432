package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/movies-graphql/internal/database"
	"github.com/deppfellow/movies-graphql/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockConner lends the same mocked connection to every call and counts releases.
type mockConner struct {
	conn     pgxmock.PgxConnIface
	acquired int
	released int
}

func (m *mockConner) WithConn(_ context.Context, fn func(q database.Querier) error) error {
	m.acquired++
	defer func() { m.released++ }()
	return fn(m.conn)
}

func newMovieRepository(t *testing.T) (*MovieRepository, pgxmock.PgxConnIface, *mockConner) {
	t.Helper()

	conn, err := pgxmock.NewConn(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(context.Background()) })

	conner := &mockConner{conn: conn}
	return NewMovieRepository(conner), conn, conner
}

func movieColumns() []string {
	return []string{"id", "title", "minutes"}
}

func int32Ptr(v int32) *int32 { return &v }

func stringPtr(v string) *string { return &v }

func TestInsertUsesColumnDefault(t *testing.T) {
	repo, conn, conner := newMovieRepository(t)

	conn.ExpectQuery(insertMovieSQL).
		WithArgs("Heat").
		WillReturnRows(pgxmock.NewRows(movieColumns()).AddRow(int32(1), "Heat", model.DefaultMinutes))

	movie, err := repo.Insert(context.Background(), model.CreateMovieInput{Title: "Heat"})
	require.NoError(t, err)

	assert.Equal(t, &model.Movie{ID: 1, Title: "Heat", Minutes: 90}, movie)
	assert.Equal(t, 1, conner.acquired)
	assert.Equal(t, conner.acquired, conner.released)
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestInsertWithMinutes(t *testing.T) {
	repo, conn, _ := newMovieRepository(t)

	conn.ExpectQuery(insertMovieWithMinutesSQL).
		WithArgs("Alien", int32(117)).
		WillReturnRows(pgxmock.NewRows(movieColumns()).AddRow(int32(2), "Alien", int32(117)))

	movie, err := repo.Insert(context.Background(), model.CreateMovieInput{Title: "Alien", Minutes: int32Ptr(117)})
	require.NoError(t, err)

	assert.Equal(t, int32(2), movie.ID)
	assert.Equal(t, int32(117), movie.Minutes)
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestInsertPropagatesDriverError(t *testing.T) {
	repo, conn, conner := newMovieRepository(t)

	pgErr := &pgconn.PgError{Code: "23502", ColumnName: "title", TableName: "movies"}
	conn.ExpectQuery(insertMovieSQL).WithArgs("").WillReturnError(pgErr)

	_, err := repo.Insert(context.Background(), model.CreateMovieInput{})
	require.Error(t, err)

	var got *pgconn.PgError
	assert.True(t, errors.As(err, &got))
	assert.Equal(t, 1, conner.released)
}

func TestUpdateByIDPartialPatch(t *testing.T) {
	repo, conn, _ := newMovieRepository(t)

	conn.ExpectExec(updateMovieSQL).
		WithArgs(int32(3), (*string)(nil), int32Ptr(120)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateByID(context.Background(), 3, model.UpdateMovieInput{Minutes: int32Ptr(120)})
	require.NoError(t, err)
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestUpdateByIDMissingRowIsNotAnError(t *testing.T) {
	repo, conn, _ := newMovieRepository(t)

	conn.ExpectExec(updateMovieSQL).
		WithArgs(int32(999), stringPtr("Nope"), (*int32)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateByID(context.Background(), 999, model.UpdateMovieInput{Title: stringPtr("Nope")})
	assert.NoError(t, err)
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestDeleteByIDIsIdempotent(t *testing.T) {
	repo, conn, conner := newMovieRepository(t)

	conn.ExpectExec(deleteMovieSQL).WithArgs(int32(4)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	conn.ExpectExec(deleteMovieSQL).WithArgs(int32(4)).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.DeleteByID(context.Background(), 4))
	require.NoError(t, repo.DeleteByID(context.Background(), 4))

	assert.Equal(t, 2, conner.released)
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestDeleteByIDConnectionFailure(t *testing.T) {
	repo, conn, _ := newMovieRepository(t)

	conn.ExpectExec(deleteMovieSQL).WithArgs(int32(4)).WillReturnError(errors.New("conn closed"))

	err := repo.DeleteByID(context.Background(), 4)
	assert.ErrorContains(t, err, "failed to delete movie 4")
}

func TestListAllOrdersByID(t *testing.T) {
	repo, conn, _ := newMovieRepository(t)

	conn.ExpectQuery(listMoviesSQL).
		WillReturnRows(pgxmock.NewRows(movieColumns()).
			AddRow(int32(1), "Heat", int32(170)).
			AddRow(int32(2), "Alien", int32(117)))

	movies, err := repo.ListAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []model.Movie{
		{ID: 1, Title: "Heat", Minutes: 170},
		{ID: 2, Title: "Alien", Minutes: 117},
	}, movies)
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestListAllEmpty(t *testing.T) {
	repo, conn, _ := newMovieRepository(t)

	conn.ExpectQuery(listMoviesSQL).WillReturnRows(pgxmock.NewRows(movieColumns()))

	movies, err := repo.ListAll(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}
