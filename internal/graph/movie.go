package graph

import "github.com/deppfellow/movies-graphql/internal/model"

// movieResolver is the Movie object type.
type movieResolver struct {
	id      int32
	title   string
	minutes int32
}

func newMovieResolver(m model.Movie) *movieResolver {
	return &movieResolver{
		id:      m.ID,
		title:   m.Title,
		minutes: m.Minutes,
	}
}

func (m *movieResolver) ID() int32 {
	return m.id
}

func (m *movieResolver) Title() string {
	return m.title
}

func (m *movieResolver) Minutes() int32 {
	return m.minutes
}

// movieInput is MovieInput.
type movieInput struct {
	Title   string
	Minutes int32
}

func (in movieInput) toModel() model.CreateMovieInput {
	minutes := in.Minutes
	return model.CreateMovieInput{
		Title:   in.Title,
		Minutes: &minutes,
	}
}

// movieUpdateInput is MovieUpdateInput; absent fields stay nil.
type movieUpdateInput struct {
	Title   *string
	Minutes *int32
}

func (in movieUpdateInput) toModel() model.UpdateMovieInput {
	return model.UpdateMovieInput{
		Title:   in.Title,
		Minutes: in.Minutes,
	}
}
