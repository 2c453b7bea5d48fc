package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidReference means an operation named a media id or post
	// index that is not where the caller expected it.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrInvariantViolation means the operation would break a grouping invariant.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrInvalidConfig means the schedule configuration is structurally nonsensical.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrCollaboratorFailure matches any CollaboratorError.
	ErrCollaboratorFailure = errors.New("collaborator failure")
)

// CollaboratorError wraps a failed external call (upload, draft store,
// submission, optimal-time lookup, caption suggestion).
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

func (e *CollaboratorError) Is(target error) bool {
	return target == ErrCollaboratorFailure
}

func NewCollaboratorError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &CollaboratorError{Op: op, Err: err}
}
