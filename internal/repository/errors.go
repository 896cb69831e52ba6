package repository

import "errors"

// ErrNotFound is returned when the requested record does not exist, or when
// it exists but is not visible to the requesting user.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("record already exists")
