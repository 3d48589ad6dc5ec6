// Package graph exposes the GraphQL query and mutation surface. Every
// resolver runs behind the authorization gate in gate.go; the schema itself
// contains no business logic beyond argument parsing.
package graph

import (
	"chirp/internal/models"
)

// resolverError carries an AppError across the GraphQL executor so its code
// ends up in the response's error extensions. Only the safe message is
// serialized; underlying causes stay in the server log.
type resolverError struct {
	appErr *models.AppError
}

func (e resolverError) Error() string {
	return e.appErr.Error()
}

func (e resolverError) Unwrap() error {
	return e.appErr
}

func (e resolverError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.appErr.Code}
}

// wrapErr converts any error into a resolverError. Errors that are not
// already AppErrors are treated as storage failures so no internal detail
// leaks to the caller.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := models.AsAppError(err); ok {
		return resolverError{appErr: appErr}
	}
	return resolverError{appErr: models.NewStorageError(err)}
}
