package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyComment rejects manual submissions whose comment is empty or
// whitespace-only; it never reaches the store.
var ErrEmptyComment = errors.New("comment cannot be empty")

// MissingColumnError aborts an entire batch before any row is processed.
type MissingColumnError struct{ Column string }

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found", e.Column)
}

// PersistenceError wraps an underlying storage failure. The store never
// retries; retrying is the caller's decision.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("persistence %s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

// ClassificationError wraps a model invocation failure after the one-time
// startup fallback has already happened.
type ClassificationError struct{ Err error }

func (e *ClassificationError) Error() string { return fmt.Sprintf("classification: %v", e.Err) }
func (e *ClassificationError) Unwrap() error { return e.Err }
