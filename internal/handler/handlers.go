package handler

import (
	"github.com/deppfellow/movies-graphql/internal/server"
	graphql "github.com/graph-gophers/graphql-go"
)

// Handlers groups all HTTP handlers for the router.
type Handlers struct {
	Health     *HealthHandler
	GraphQL    *GraphQLHandler
	Playground *PlaygroundHandler
}

func NewHandlers(s *server.Server, schema *graphql.Schema) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		GraphQL:    NewGraphQLHandler(s, schema),
		Playground: NewPlaygroundHandler(s),
	}
}
