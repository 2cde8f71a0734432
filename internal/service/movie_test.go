package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/movies-graphql/internal/model"
	"github.com/deppfellow/movies-graphql/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newService() (*MovieService, *testutil.MovieStore) {
	store := testutil.NewMovieStore()
	return NewMovieService(store), store
}

func TestCreateMovieAssignsUniqueIDs(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	first, err := svc.CreateMovie(ctx, model.CreateMovieInput{Title: "Heat", Minutes: ptr[int32](170)})
	require.NoError(t, err)
	second, err := svc.CreateMovie(ctx, model.CreateMovieInput{Title: "Heat", Minutes: ptr[int32](170)})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "Heat", second.Title)
}

func TestCreateMovieDefaultMinutes(t *testing.T) {
	svc, _ := newService()

	movie, err := svc.CreateMovie(context.Background(), model.CreateMovieInput{Title: "Alien"})
	require.NoError(t, err)

	assert.Equal(t, model.DefaultMinutes, movie.Minutes)
}

func TestUpdateMovie(t *testing.T) {
	tests := []struct {
		name    string
		id      int32
		patch   model.UpdateMovieInput
		want    model.Movie
		present bool
	}{
		{
			name:    "title only",
			id:      1,
			patch:   model.UpdateMovieInput{Title: ptr("Heat (1995)")},
			want:    model.Movie{ID: 1, Title: "Heat (1995)", Minutes: 170},
			present: true,
		},
		{
			name:    "minutes only",
			id:      1,
			patch:   model.UpdateMovieInput{Minutes: ptr[int32](171)},
			want:    model.Movie{ID: 1, Title: "Heat", Minutes: 171},
			present: true,
		},
		{
			name:    "empty patch",
			id:      1,
			patch:   model.UpdateMovieInput{},
			want:    model.Movie{ID: 1, Title: "Heat", Minutes: 170},
			present: true,
		},
		{
			name:  "missing id",
			id:    99,
			patch: model.UpdateMovieInput{Title: ptr("Ghost")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService()
			_, err := svc.CreateMovie(context.Background(), model.CreateMovieInput{Title: "Heat", Minutes: ptr[int32](170)})
			require.NoError(t, err)

			ok, err := svc.UpdateMovie(context.Background(), tt.id, tt.patch)
			require.NoError(t, err)
			assert.True(t, ok)

			got, present := store.Get(tt.id)
			assert.Equal(t, tt.present, present)
			if tt.present {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDeleteMovieIsIdempotent(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	movie, err := svc.CreateMovie(ctx, model.CreateMovieInput{Title: "Heat"})
	require.NoError(t, err)

	for range 2 {
		ok, err := svc.DeleteMovie(ctx, movie.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	_, present := store.Get(movie.ID)
	assert.False(t, present)
}

func TestListMoviesEmpty(t *testing.T) {
	svc, _ := newService()

	movies, err := svc.ListMovies(context.Background())
	require.NoError(t, err)

	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}

func TestStoreFailureIsReturned(t *testing.T) {
	svc, store := newService()
	store.Err = errors.New("connection refused")
	ctx := context.Background()

	_, err := svc.CreateMovie(ctx, model.CreateMovieInput{Title: "Heat"})
	assert.ErrorIs(t, err, store.Err)

	ok, err := svc.UpdateMovie(ctx, 1, model.UpdateMovieInput{})
	assert.ErrorIs(t, err, store.Err)
	assert.False(t, ok)

	ok, err = svc.DeleteMovie(ctx, 1)
	assert.ErrorIs(t, err, store.Err)
	assert.False(t, ok)

	_, err = svc.ListMovies(ctx)
	assert.ErrorIs(t, err, store.Err)
}

func TestServiceLogsToContextLogger(t *testing.T) {
	svc, _ := newService()

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	_, err := svc.CreateMovie(ctx, model.CreateMovieInput{Title: "Heat"})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"event":"movie_created"`)
	assert.Contains(t, buf.String(), `"movie_id":1`)
}
