// Package graph exposes the movie operations as a GraphQL schema.
//
// The SDL lives in schema.graphql and is bound to Resolver by graphql-go
// through reflection: root fields map to Resolver methods, object fields to
// methods of the per-type resolvers.
package graph

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/deppfellow/movies-graphql/internal/config"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"
)

//go:embed schema.graphql
var schemaSDL string

// SDL returns the schema document served by the API.
func SDL() string {
	return schemaSDL
}

// NewSchema parses the embedded SDL and binds it to resolver.
// It fails when a root field has no matching resolver method.
func NewSchema(cfg config.GraphQLConfig, resolver *Resolver, logger *zerolog.Logger) (*graphql.Schema, error) {
	opts := []graphql.SchemaOpt{
		graphql.Logger(&panicLogger{log: logger}),
	}
	if cfg.MaxDepth > 0 {
		opts = append(opts, graphql.MaxDepth(cfg.MaxDepth))
	}
	if cfg.MaxParallelism > 0 {
		opts = append(opts, graphql.MaxParallelism(cfg.MaxParallelism))
	}

	schema, err := graphql.ParseSchema(schemaSDL, resolver, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse graphql schema: %w", err)
	}

	return schema, nil
}

// panicLogger reports resolver panics through zerolog. graphql-go turns
// the panic itself into a field error.
type panicLogger struct {
	log *zerolog.Logger
}

func (l *panicLogger) LogPanic(ctx context.Context, value interface{}) {
	logger := l.log
	if ctxLogger := zerolog.Ctx(ctx); ctxLogger.GetLevel() != zerolog.Disabled {
		logger = ctxLogger
	}

	logger.Error().
		Stack().
		Interface("panic", value).
		Msg("graphql resolver panicked")
}
