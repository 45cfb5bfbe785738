package model

import "errors"

var (
	ErrResourceNotFound = errors.New("no such resource")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrSessionClosed    = errors.New("session is closed")
	ErrAlreadyClosed    = errors.New("session already closed")
	ErrInvalidCandidate = errors.New("movie is not in the group pool")
	ErrStorageFailure   = errors.New("storage failure")
)

// IsRetryable reports whether the caller may retry the same request.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}
