// Package service contains the business logic.
//
// It sits between the graph and repository layers.
// It receives typed inputs from the resolvers, applies the
// operation semantics, and calls repository methods to interact
// with the data
package service

import (
	"github.com/deppfellow/movies-graphql/internal/repository"
)

type Services struct {
	Movies *MovieService
}

func NewServices(repos *repository.Repositories) *Services {
	return &Services{
		Movies: NewMovieService(repos.Movies),
	}
}
