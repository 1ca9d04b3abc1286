package errors

import "errors"

var (
	ErrActivityNotFound      = errors.New("activity not found")
	ErrActivityAlreadyExists = errors.New("activity already exists")
	ErrInvalidActivityName   = errors.New("activity name is required")
	ErrDatabaseOperation     = errors.New("database operation failed")
)
