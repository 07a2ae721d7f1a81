package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by services when a referenced record does not
	// exist. Storage implementations never return it from update or delete:
	// mutating an absent id is a no-op success.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by inserts whose id already exists.
	ErrConflict = errors.New("conflict")
)

// StorageError wraps an I/O or transaction failure of the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Wrap returns nil for a nil err, leaves sentinel errors as they are, and
// wraps anything else in a StorageError.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
		return err
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
