package errors

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidGender     = errors.New("gender must be one of male, female, other")
	ErrInvalidBirthdate  = errors.New("invalid birthdate")
	ErrInvalidLocation   = errors.New("invalid location")
	ErrInvalidName       = errors.New("name is required")
	ErrDatabaseOperation = errors.New("database operation failed")
)
