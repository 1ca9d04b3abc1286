package errors

import "errors"

var (
	ErrEmptyText         = errors.New("message text is empty")
	ErrTextTooLong       = errors.New("message text is too long")
	ErrWrongRecipient    = errors.New("recipient is not the other party of the channel")
	ErrDatabaseOperation = errors.New("database operation failed")
)
