package server

import (
	"time"

	"chirp/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// graphQLRequest is the standard GraphQL-over-HTTP POST body.
type graphQLRequest struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQL executes a query or mutation. Errors are returned inside the
// GraphQL result with status 200, per convention; only an unreadable body
// gets an HTTP-level error.
func (s *Server) GraphQL(c *fiber.Ctx) error {
	var req graphQLRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": []fiber.Map{{"message": "Invalid request body"}},
		})
	}

	start := time.Now()
	result := graphql.Do(graphql.Params{
		Schema:         s.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        c.UserContext(),
	})
	observability.ObserveGraphQL(operationLabel(req.OperationName), result.HasErrors(), start)

	return c.JSON(result)
}

func operationLabel(name string) string {
	if name == "" {
		return "anonymous"
	}
	return name
}
