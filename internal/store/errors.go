package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrItemWithoutProject is returned when persisting an item with no owner.
	ErrItemWithoutProject = errors.New("item has no project")
)

// PersistenceError reports an I/O failure of the underlying database
// while committing or opening the unit of work.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistenceError reports whether err (or any error in its chain) is a PersistenceError.
func IsPersistenceError(err error) bool {
	var pErr *PersistenceError
	return errors.As(err, &pErr)
}
