package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that no user matched the query.
var ErrNotFound = errors.New("repository: not found")

// DuplicateKeyError is returned when a write would break the uniqueness of
// Field across users.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("repository: duplicate %s", e.Field)
}
