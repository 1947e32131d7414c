package errors

import "errors"

var (
	ErrNotFound = errors.New("stable not found")

	ErrInvalidID = errors.New("invalid stable ID format")

	ErrDuplicateMember = errors.New("member with this phone already exists in the stable")

	ErrMemberNotFound = errors.New("member not found in the stable")

	ErrOwnerImmutable = errors.New("the stable owner cannot be removed or demoted")
)
