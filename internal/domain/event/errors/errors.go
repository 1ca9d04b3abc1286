package errors

import "errors"

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventAlreadyExists = errors.New("event already exists")
	ErrInvalidAgeRange    = errors.New("min age must not exceed max age")
	ErrInvalidGenderPref  = errors.New("gender preference must be a non-empty subset of male, female, other")
	ErrNotInitiator       = errors.New("only the initiator may close the event")
	ErrEventClosed        = errors.New("event is closed")
	ErrDatabaseOperation  = errors.New("database operation failed")
)
