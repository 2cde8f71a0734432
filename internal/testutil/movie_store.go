// Package testutil holds in-memory stand-ins shared by package tests.
package testutil

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/deppfellow/movies-graphql/internal/model"
)

// MovieStore is an in-memory movie table with serial ids.
//
// Err, when set, is returned by every method instead of touching the data.
type MovieStore struct {
	mu     sync.Mutex
	nextID int32
	rows   map[int32]model.Movie

	Err error
}

func NewMovieStore() *MovieStore {
	return &MovieStore{
		nextID: 1,
		rows:   make(map[int32]model.Movie),
	}
}

func (s *MovieStore) Insert(_ context.Context, in model.CreateMovieInput) (*model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	movie := model.Movie{ID: s.nextID, Title: in.Title, Minutes: model.DefaultMinutes}
	if in.Minutes != nil {
		movie.Minutes = *in.Minutes
	}

	s.rows[movie.ID] = movie
	s.nextID++

	return &movie, nil
}

func (s *MovieStore) UpdateByID(_ context.Context, id int32, in model.UpdateMovieInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	movie, ok := s.rows[id]
	if !ok {
		return nil
	}
	if in.Title != nil {
		movie.Title = *in.Title
	}
	if in.Minutes != nil {
		movie.Minutes = *in.Minutes
	}
	s.rows[id] = movie

	return nil
}

func (s *MovieStore) DeleteByID(_ context.Context, id int32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}

	delete(s.rows, id)
	return nil
}

func (s *MovieStore) ListAll(_ context.Context) ([]model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}

	movies := make([]model.Movie, 0, len(s.rows))
	for _, movie := range s.rows {
		movies = append(movies, movie)
	}
	slices.SortFunc(movies, func(a, b model.Movie) int { return cmp.Compare(a.ID, b.ID) })

	return movies, nil
}

// Get returns the stored row for id, bypassing Err.
func (s *MovieStore) Get(id int32) (model.Movie, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	movie, ok := s.rows[id]
	return movie, ok
}
