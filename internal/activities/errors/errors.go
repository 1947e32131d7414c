package errors

import "errors"

var (
	ErrNotFound         = errors.New("activity not found")
	ErrInvalidID        = errors.New("invalid activity ID")
	ErrAlreadyCompleted = errors.New("activity is already completed")
	ErrNotOpen          = errors.New("activity is not open")
)
