// Package model holds the persisted entities and the inputs used to
// create or change them.
package model

// DefaultMinutes is the runtime stored for a movie created without one.
// It matches the column default in the movies migration.
const DefaultMinutes int32 = 90

// Movie is a row of the movies table.
type Movie struct {
	ID      int32  `db:"id"`
	Title   string `db:"title"`
	Minutes int32  `db:"minutes"`
}

// CreateMovieInput carries the values for a new movie.
// A nil Minutes leaves the column default in place.
type CreateMovieInput struct {
	Title   string
	Minutes *int32
}

// UpdateMovieInput is a partial patch: only non-nil fields are written.
type UpdateMovieInput struct {
	Title   *string
	Minutes *int32
}

// IsEmpty reports whether the patch changes nothing.
func (in UpdateMovieInput) IsEmpty() bool {
	return in.Title == nil && in.Minutes == nil
}
