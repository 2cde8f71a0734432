package handler

import (
	"github.com/deppfellow/movies-graphql/internal/middleware"
	"github.com/deppfellow/movies-graphql/internal/server"
	"github.com/deppfellow/movies-graphql/internal/validation"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
)

// GraphQLRequest is the standard GraphQL-over-HTTP request body.
type GraphQLRequest struct {
	Query         string                 `json:"query" validate:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

func (r *GraphQLRequest) Validate() error {
	return validation.ValidateStruct(r)
}

type GraphQLHandler struct {
	Handler
	schema *graphql.Schema
}

func NewGraphQLHandler(s *server.Server, schema *graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{
		Handler: NewHandler(s),
		schema:  schema,
	}
}

// Execute runs one GraphQL document. Field and syntax errors travel inside
// the response envelope with a 200 status; only a broken envelope fails
// the HTTP request.
func (h *GraphQLHandler) Execute(c echo.Context, req *GraphQLRequest) (*graphql.Response, error) {
	ctx := c.Request().Context()

	if txn := newrelic.FromContext(ctx); txn != nil && req.OperationName != "" {
		txn.AddAttribute("graphql.operation_name", req.OperationName)
	}

	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)

	if len(resp.Errors) > 0 {
		middleware.GetLogger(c).Warn().
			Str("operation_name", req.OperationName).
			Int("error_count", len(resp.Errors)).
			Str("first_error", resp.Errors[0].Message).
			Msg("graphql response carries errors")

		if txn := newrelic.FromContext(ctx); txn != nil {
			txn.AddAttribute("graphql.error_count", len(resp.Errors))
		}
	}

	return resp, nil
}
