package models

import (
	"errors"
	"fmt"
)

// Error codes surfaced to API callers.
const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeStorageError       = "STORAGE_ERROR"
	CodeValidationError    = "VALIDATION_ERROR"
)

// AppError is the application error type. Message is safe to return to
// callers; Err holds the underlying cause and is only written to internal
// logs, never to the response payload.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError reports that a referenced resource does not exist.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %v not found", resource, id),
	}
}

// NewUnauthorizedError reports a missing/invalid token or an identity
// mismatch. The design deliberately does not distinguish the two.
func NewUnauthorizedError(message string) *AppError {
	if message == "" {
		message = "Unauthorized request"
	}
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewInvalidCredentialsError is returned on any login failure. The message
// is identical whether the username is unknown or the password is wrong,
// to avoid user enumeration.
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:    CodeInvalidCredentials,
		Message: "Invalid credentials",
	}
}

// NewConflictError reports a uniqueness violation, e.g. a taken username.
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// NewValidationError reports malformed or unacceptable input.
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidationError,
		Message: message,
	}
}

// NewStorageError wraps a persistence or object-store failure. The cause is
// retained for logging but the caller-visible message stays generic.
func NewStorageError(err error) *AppError {
	return &AppError{
		Code:    CodeStorageError,
		Message: "Storage failure",
		Err:     err,
	}
}

// AsAppError unwraps err to an *AppError if there is one in the chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the error code for err, or STORAGE_ERROR for errors that
// did not come through the AppError constructors.
func CodeOf(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return CodeStorageError
}
