package errors

import "errors"

var (
	ErrNotFound  = errors.New("horse not found")
	ErrInvalidID = errors.New("invalid horse ID")
)
