package service

import (
	"context"

	"github.com/deppfellow/movies-graphql/internal/model"
	"github.com/rs/zerolog"
)

// MovieStore is the data access the movie service needs.
type MovieStore interface {
	Insert(ctx context.Context, in model.CreateMovieInput) (*model.Movie, error)
	UpdateByID(ctx context.Context, id int32, in model.UpdateMovieInput) error
	DeleteByID(ctx context.Context, id int32) error
	ListAll(ctx context.Context) ([]model.Movie, error)
}

type MovieService struct {
	store MovieStore
}

func NewMovieService(store MovieStore) *MovieService {
	return &MovieService{store: store}
}

// CreateMovie persists a new movie and returns it with its assigned id.
func (s *MovieService) CreateMovie(ctx context.Context, in model.CreateMovieInput) (*model.Movie, error) {
	movie, err := s.store.Insert(ctx, in)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Int32("movie_id", movie.ID).
		Str("event", "movie_created").
		Msg("movie created")

	return movie, nil
}

// UpdateMovie patches the movie with the given id.
//
// It reports true whenever the statement ran, whether or not a row matched;
// callers cannot tell an update from a miss. An empty patch still runs and
// changes nothing.
func (s *MovieService) UpdateMovie(ctx context.Context, id int32, in model.UpdateMovieInput) (bool, error) {
	if err := s.store.UpdateByID(ctx, id, in); err != nil {
		return false, err
	}

	zerolog.Ctx(ctx).Info().
		Int32("movie_id", id).
		Bool("empty_patch", in.IsEmpty()).
		Str("event", "movie_updated").
		Msg("movie update applied")

	return true, nil
}

// DeleteMovie removes the movie with the given id. Deleting a missing id
// succeeds, so repeating a delete is harmless.
func (s *MovieService) DeleteMovie(ctx context.Context, id int32) (bool, error) {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return false, err
	}

	zerolog.Ctx(ctx).Info().
		Int32("movie_id", id).
		Str("event", "movie_deleted").
		Msg("movie delete applied")

	return true, nil
}

// ListMovies reads every movie from storage on each call.
func (s *MovieService) ListMovies(ctx context.Context) ([]model.Movie, error) {
	movies, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if movies == nil {
		movies = []model.Movie{}
	}

	return movies, nil
}
