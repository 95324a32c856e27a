package bundle

import (
	"errors"
	"fmt"
)

// Outcome kinds, matched with errors.Is. A *StorageError matches ErrStorage
// and also whatever its cause matches, such as ErrUnsupportedFormat.
var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("does not exist")
	ErrInvalidURL    = errors.New("is not a valid url")
	ErrEmptyBundle   = errors.New("is empty")
	ErrOpenFailed    = errors.New("did not open")
	ErrStorage       = errors.New("storage error")
)

// StorageError wraps a failure of the underlying key-value store.
type StorageError struct {
	Op   string
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is reports ErrStorage as a match so callers need not use errors.As.
func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func storageErr(op, name string, err error) error {
	return &StorageError{Op: op, Name: name, Err: err}
}

func notFound(name string) error {
	return fmt.Errorf("%q %w", name, ErrNotFound)
}

func alreadyExists(name string) error {
	return fmt.Errorf("%q %w", name, ErrAlreadyExists)
}

// Result is the outcome of one item of a batch operation.
type Result struct {
	// Item is the bundle name or link the outcome belongs to.
	Item string
	Err  error
}

// OK reports whether the item succeeded.
func (r Result) OK() bool { return r.Err == nil }
