package graph

import (
	"context"
	"time"

	"github.com/deppfellow/movies-graphql/internal/metrics"
	"github.com/deppfellow/movies-graphql/internal/model"
	"github.com/deppfellow/movies-graphql/internal/sqlerr"
	"github.com/rs/zerolog"
)

// MovieService is the business layer behind the movie fields.
type MovieService interface {
	CreateMovie(ctx context.Context, in model.CreateMovieInput) (*model.Movie, error)
	UpdateMovie(ctx context.Context, id int32, in model.UpdateMovieInput) (bool, error)
	DeleteMovie(ctx context.Context, id int32) (bool, error)
	ListMovies(ctx context.Context) ([]model.Movie, error)
}

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	movies  MovieService
	metrics *metrics.Metrics
}

// NewResolver builds the root resolver. m may be nil.
func NewResolver(movies MovieService, m *metrics.Metrics) *Resolver {
	return &Resolver{
		movies:  movies,
		metrics: m,
	}
}

func (r *Resolver) CreateMovie(ctx context.Context, args struct{ Options movieInput }) (*movieResolver, error) {
	start := time.Now()

	movie, err := r.movies.CreateMovie(ctx, args.Options.toModel())
	r.metrics.ObserveOperation("createMovie", start, err)
	if err != nil {
		return nil, r.fail(ctx, "createMovie", err)
	}

	return newMovieResolver(*movie), nil
}

func (r *Resolver) UpdateMovie(ctx context.Context, args struct {
	ID           int32
	UpdatedInput movieUpdateInput
}) (bool, error) {
	start := time.Now()

	ok, err := r.movies.UpdateMovie(ctx, args.ID, args.UpdatedInput.toModel())
	r.metrics.ObserveOperation("updateMovie", start, err)
	if err != nil {
		return false, r.fail(ctx, "updateMovie", err)
	}

	return ok, nil
}

func (r *Resolver) DeleteMovie(ctx context.Context, args struct{ ID int32 }) (bool, error) {
	start := time.Now()

	ok, err := r.movies.DeleteMovie(ctx, args.ID)
	r.metrics.ObserveOperation("deleteMovie", start, err)
	if err != nil {
		return false, r.fail(ctx, "deleteMovie", err)
	}

	return ok, nil
}

func (r *Resolver) Movies(ctx context.Context) ([]*movieResolver, error) {
	start := time.Now()

	movies, err := r.movies.ListMovies(ctx)
	r.metrics.ObserveOperation("movies", start, err)
	if err != nil {
		return nil, r.fail(ctx, "movies", err)
	}

	resolvers := make([]*movieResolver, 0, len(movies))
	for _, m := range movies {
		resolvers = append(resolvers, newMovieResolver(m))
	}

	return resolvers, nil
}

// fail logs the underlying error and returns the sanitized one that ends up
// in the GraphQL response.
func (r *Resolver) fail(ctx context.Context, operation string, err error) error {
	zerolog.Ctx(ctx).Error().
		Err(err).
		Str("operation", operation).
		Msg("graphql operation failed")

	return sqlerr.HandleError(err)
}
