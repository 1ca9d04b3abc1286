package domain

import "errors"

var (
	// ErrConflict is returned by repositories when a transaction lost a race
	// (serialization failure, deadlock, lock or statement timeout) and may be retried.
	ErrConflict = errors.New("concurrent write conflict")
)
