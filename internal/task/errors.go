package task

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed matches any error caused by a task file that cannot be
	// decoded into records.
	ErrMalformed = errors.New("malformed task file")
	// ErrOutOfRange is returned when a position is outside the store.
	ErrOutOfRange = errors.New("position out of range")
	// ErrEmptyDescription is returned by ValidateDescription.
	ErrEmptyDescription = errors.New("description is empty")
	// ErrNotFound is returned when a handle does not name a record in the store.
	ErrNotFound = errors.New("task not found")
)

// MalformedError describes one problem in a task file.
type MalformedError struct {
	Path string // JSON path to the offending value, e.g. "[2].description"
	Err  error  // Underlying error
}

func (e *MalformedError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Is makes every MalformedError match ErrMalformed.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

// atIndex prefixes the error path with a record index.
func atIndex(err error, index int) error {
	var me *MalformedError
	if !errors.As(err, &me) {
		return &MalformedError{Path: fmt.Sprintf("[%d]", index), Err: err}
	}
	path := fmt.Sprintf("[%d]", index)
	if me.Path != "" {
		path += "." + me.Path
	}
	return &MalformedError{Path: path, Err: me.Err}
}

func outOfRange(index, length int) error {
	return fmt.Errorf("%w: %d (store has %d tasks)", ErrOutOfRange, index, length)
}
