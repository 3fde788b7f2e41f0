package errors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid queue input")
	ErrMemberNotFound     = errors.New("queue member not found")
	ErrDuplicateMember    = errors.New("queue member already exists")
	ErrDataUnavailable    = errors.New("queue data unavailable")
	ErrInvariantViolation = errors.New("queue invariant violated")
)
