package fetch

import (
	"errors"
	"fmt"
)

// ErrEmptyContent is returned when a page yields no readable content.
var ErrEmptyContent = errors.New("page has no readable content")

// Error describes a failed page retrieval.
type Error struct {
	URL     string
	Message string
	// StatusCode is set when the server answered with a non-200 status.
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
