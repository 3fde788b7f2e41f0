package errors

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid approval workflow input")
	ErrInvalidDecision  = errors.New("decision must be approved or rejected")
	ErrWorkflowNotFound = errors.New("approval workflow not found")
	ErrWorkflowConflict = errors.New("approval workflow already exists for payout")
	ErrWorkflowClosed   = errors.New("approval workflow is closed")
	ErrDataUnavailable  = errors.New("approval workflow data unavailable")
	ErrOutboxDecode     = errors.New("outbox payload could not be decoded")
	ErrUnknownChannel   = errors.New("unknown outbox channel")
)
