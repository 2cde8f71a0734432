package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/movies-graphql/internal/database"
	"github.com/deppfellow/movies-graphql/internal/model"
	"github.com/jackc/pgx/v5"
)

const (
	insertMovieSQL = `INSERT INTO movies (title) VALUES ($1) RETURNING id, title, minutes`

	insertMovieWithMinutesSQL = `INSERT INTO movies (title, minutes) VALUES ($1, $2) RETURNING id, title, minutes`

	updateMovieSQL = `UPDATE movies SET title = COALESCE($2, title), minutes = COALESCE($3, minutes) WHERE id = $1`

	deleteMovieSQL = `DELETE FROM movies WHERE id = $1`

	listMoviesSQL = `SELECT id, title, minutes FROM movies ORDER BY id`
)

type MovieRepository struct {
	db database.Conner
}

func NewMovieRepository(db database.Conner) *MovieRepository {
	return &MovieRepository{db: db}
}

// Insert stores a new movie and returns the row as persisted, id included.
// When in.Minutes is nil the column is left out so the table default applies.
func (r *MovieRepository) Insert(ctx context.Context, in model.CreateMovieInput) (*model.Movie, error) {
	var movie model.Movie

	err := r.db.WithConn(ctx, func(q database.Querier) error {
		var row pgx.Row
		if in.Minutes == nil {
			row = q.QueryRow(ctx, insertMovieSQL, in.Title)
		} else {
			row = q.QueryRow(ctx, insertMovieWithMinutesSQL, in.Title, *in.Minutes)
		}
		return row.Scan(&movie.ID, &movie.Title, &movie.Minutes)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert movie: table:movies: %w", err)
	}

	return &movie, nil
}

// UpdateByID applies the non-nil fields of in to the movie with the given id.
// Matching no row is not an error.
func (r *MovieRepository) UpdateByID(ctx context.Context, id int32, in model.UpdateMovieInput) error {
	err := r.db.WithConn(ctx, func(q database.Querier) error {
		_, err := q.Exec(ctx, updateMovieSQL, id, in.Title, in.Minutes)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update movie %d: %w", id, err)
	}

	return nil
}

// DeleteByID removes the movie with the given id. Matching no row is not an error.
func (r *MovieRepository) DeleteByID(ctx context.Context, id int32) error {
	err := r.db.WithConn(ctx, func(q database.Querier) error {
		_, err := q.Exec(ctx, deleteMovieSQL, id)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete movie %d: %w", id, err)
	}

	return nil
}

// ListAll returns every stored movie ordered by id. The result is never nil.
func (r *MovieRepository) ListAll(ctx context.Context) ([]model.Movie, error) {
	var movies []model.Movie

	err := r.db.WithConn(ctx, func(q database.Querier) error {
		rows, err := q.Query(ctx, listMoviesSQL)
		if err != nil {
			return err
		}

		movies, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Movie])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}

	if movies == nil {
		movies = []model.Movie{}
	}

	return movies, nil
}
