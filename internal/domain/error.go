package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound         = errors.New("entity not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrJobClosed        = errors.New("job is not open for this action")
	ErrDuplicateBid     = errors.New("contractor already has an active bid on this job")
	ErrInvalidState     = errors.New("bid is not in the expected state for this transition")
	ErrForbidden        = errors.New("actor lacks authority for this operation")
	ErrAlreadyReviewed  = errors.New("job has already been reviewed")
	ErrStoreUnavailable = errors.New("persistence store unavailable")

	// Infrastructure-level errors surfaced by the repositories
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid execution context for query")
)
