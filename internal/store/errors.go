// Package store provides the Job Store: the exclusive owner of all job records and of
// the persisted document they are serialized to after every mutation.
package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by NotFoundError via errors.Is.
var ErrNotFound = errors.New("job not found")

// ErrNoDocument is returned by a Backend when nothing has been persisted yet.
var ErrNoDocument = errors.New("no persisted document")

// NotFoundError is returned when a job id is not present in the store.
type NotFoundError struct {
	JobID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("job %s not found in store", e.JobID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DuplicateLinkError is returned when a record would share its job link with another record.
type DuplicateLinkError struct {
	JobLink    string
	ExistingID string
}

func (e *DuplicateLinkError) Error() string {
	return fmt.Sprintf("job link %s is already tracked by job %s", e.JobLink, e.ExistingID)
}

// PersistError wraps a failure to write the document.
type PersistError struct {
	Message string
	Cause   error
}

func (e *PersistError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("persist error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("persist error: %s", e.Message)
}

func (e *PersistError) Unwrap() error {
	return e.Cause
}
