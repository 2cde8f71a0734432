package repository

import (
	"github.com/deppfellow/movies-graphql/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Movies *MovieRepository
}

// NewRepositories wires every repository to the server's connection pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Movies: NewMovieRepository(s.DB),
	}
}
