package errors

import "errors"

var (
	ErrMatchNotFound     = errors.New("match not found")
	ErrNotCreator        = errors.New("caller is not the event creator")
	ErrNotParty          = errors.New("caller is not a party to the match")
	ErrCreatorMismatch   = errors.New("creator is not the event initiator")
	ErrSelfInterest      = errors.New("initiator cannot express interest in own event")
	ErrNotEligible       = errors.New("participant does not satisfy the event constraints")
	ErrEventClosed       = errors.New("event is closed")
	ErrDatabaseOperation = errors.New("database operation failed")
)
