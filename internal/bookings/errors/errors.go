package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrServiceTypeNotFound = errors.New("service type not found")

	// ErrLockHeld is returned by the lock repository when another request
	// currently holds the advisory lock for the same workspace.
	ErrLockHeld = errors.New("booking lock is held by another request")
)
