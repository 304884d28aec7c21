package mailbox

import "fmt"

// Error represents a failed mailbox operation.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("mailbox: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("mailbox: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
