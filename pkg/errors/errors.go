package errors

import "fmt"

type baseError struct {
	err error
}

func (e *baseError) Error() string {
	return e.err.Error()
}

// Unwrap exposes the wrapped domain sentinel, if the message was built with %w.
func (e *baseError) Unwrap() error {
	return unwrap(e.err)
}

func unwrap(err error) error {
	type single interface{ Unwrap() error }
	if w, ok := err.(single); ok {
		return w.Unwrap()
	}
	return nil
}

func newBase(message string) baseError {
	return baseError{err: fmt.Errorf("%s", message)}
}

func newBasef(format string, args ...interface{}) baseError {
	return baseError{err: fmt.Errorf(format, args...)}
}

// ValidationError represents a rejected input (HTTP 400).
// Field names the offending attribute when the failure is field-level.
type ValidationError struct {
	baseError
	Field string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{baseError: newBase(message)}
}

func NewValidationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{baseError: newBasef(format, args...)}
}

// NewFieldError builds a ValidationError bound to a single field.
func NewFieldError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{baseError: newBasef(field+": "+format, args...), Field: field}
}

// UnauthorizedError represents a missing or invalid identity (HTTP 401)
type UnauthorizedError struct {
	baseError
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{newBase(message)}
}

func NewUnauthorizedErrorf(format string, args ...interface{}) *UnauthorizedError {
	return &UnauthorizedError{newBasef(format, args...)}
}

// AuthorizationError represents a caller that is not allowed to act (HTTP 403).
// It is never retried.
type AuthorizationError struct {
	baseError
}

func NewAuthorizationError(message string) *AuthorizationError {
	return &AuthorizationError{newBase(message)}
}

func NewAuthorizationErrorf(format string, args ...interface{}) *AuthorizationError {
	return &AuthorizationError{newBasef(format, args...)}
}

// NotFoundError represents a not found error (HTTP 404)
type NotFoundError struct {
	baseError
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{newBase(message)}
}

func NewNotFoundErrorf(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{newBasef(format, args...)}
}

// ConflictError represents a concurrent write collision that survived retries (HTTP 409)
type ConflictError struct {
	baseError
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{newBase(message)}
}

func NewConflictErrorf(format string, args ...interface{}) *ConflictError {
	return &ConflictError{newBasef(format, args...)}
}

// ImportError reports a bulk load that was rolled back. Row is the 1-based
// data row (header excluded), zero when the failure is not tied to a row.
type ImportError struct {
	baseError
	Table string
	Row   int
}

func NewImportError(table string, row int, cause error) *ImportError {
	if row > 0 {
		return &ImportError{baseError: newBasef("import %s: row %d: %w", table, row, cause), Table: table, Row: row}
	}
	return &ImportError{baseError: newBasef("import %s: %w", table, cause), Table: table}
}

// InternalError represents an internal server error (HTTP 500)
type InternalError struct {
	baseError
}

func NewInternalError(message string) *InternalError {
	return &InternalError{newBase(message)}
}

func NewInternalErrorf(format string, args ...interface{}) *InternalError {
	return &InternalError{newBasef(format, args...)}
}

// ServiceUnavailableError represents a service unavailable error (HTTP 503)
type ServiceUnavailableError struct {
	baseError
}

func NewServiceUnavailableError(message string) *ServiceUnavailableError {
	return &ServiceUnavailableError{newBase(message)}
}

func NewServiceUnavailableErrorf(format string, args ...interface{}) *ServiceUnavailableError {
	return &ServiceUnavailableError{newBasef(format, args...)}
}
