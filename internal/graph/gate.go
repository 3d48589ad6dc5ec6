package graph

import (
	"strconv"

	"chirp/internal/middleware"
	"chirp/internal/models"

	"github.com/graphql-go/graphql"
)

// authenticated wraps a resolver so it only runs for requests carrying a
// verified identity. The verified user ID is passed to fn.
func authenticated(fn func(p graphql.ResolveParams, viewerID uint) (interface{}, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		viewerID, ok := middleware.ViewerFromContext(p.Context)
		if !ok {
			return nil, wrapErr(models.NewUnauthorizedError(""))
		}
		result, err := fn(p, viewerID)
		if err != nil {
			return nil, wrapErr(err)
		}
		return result, nil
	}
}

// sameUser wraps a resolver that acts on a specific user's own resources.
// The ID argument named by arg must match the verified identity; a mismatch
// is reported exactly like a missing token.
func sameUser(arg string, fn func(p graphql.ResolveParams, viewerID uint) (interface{}, error)) graphql.FieldResolveFn {
	return authenticated(func(p graphql.ResolveParams, viewerID uint) (interface{}, error) {
		targetID, err := uintArg(p, arg)
		if err != nil {
			return nil, err
		}
		if targetID != viewerID {
			return nil, models.NewUnauthorizedError("")
		}
		return fn(p, viewerID)
	})
}

// open wraps a resolver that needs no identity (registration and login).
func open(fn func(p graphql.ResolveParams) (interface{}, error)) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		result, err := fn(p)
		if err != nil {
			return nil, wrapErr(err)
		}
		return result, nil
	}
}

// uintArg parses a required ID argument. GraphQL IDs arrive as strings.
func uintArg(p graphql.ResolveParams, name string) (uint, error) {
	raw, ok := p.Args[name]
	if !ok || raw == nil {
		return 0, models.NewValidationError("Missing required argument: " + name)
	}
	switch v := raw.(type) {
	case string:
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return 0, models.NewValidationError("Invalid ID: " + v)
		}
		return uint(id), nil
	case int:
		if v < 0 {
			return 0, models.NewValidationError("Invalid ID")
		}
		return uint(v), nil
	default:
		return 0, models.NewValidationError("Invalid ID for argument: " + name)
	}
}

// stringArg returns a string argument or "" when absent.
func stringArg(p graphql.ResolveParams, name string) string {
	if v, ok := p.Args[name].(string); ok {
		return v
	}
	return ""
}

// idListArg parses an optional list of ID arguments.
func idListArg(p graphql.ResolveParams, name string) ([]uint, error) {
	raw, ok := p.Args[name].([]interface{})
	if !ok {
		return nil, nil
	}
	ids := make([]uint, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, models.NewValidationError("Invalid ID list for argument: " + name)
		}
		id, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, models.NewValidationError("Invalid ID: " + s)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
