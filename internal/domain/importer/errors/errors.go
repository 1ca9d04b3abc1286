package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTable      = errors.New("unknown table")
	ErrHeaderMismatch    = errors.New("header does not match table columns")
	ErrMalformedRow      = errors.New("malformed row")
	ErrMissingValue      = errors.New("required value is NULL")
	ErrInvalidValue      = errors.New("invalid value")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrForeignKey        = errors.New("referenced row does not exist")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// RowError locates a failure at a 0-based row index of the loaded batch.
type RowError struct {
	Index int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row index %d: %v", e.Index, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
