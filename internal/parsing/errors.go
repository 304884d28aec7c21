package parsing

import "fmt"

// APICallError reports that the model could not be asked for job details,
// for example because of quota or network failures.
type APICallError struct {
	Model string
	Cause error
}

func (e *APICallError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("extraction call failed: %v", e.Cause)
	}
	return fmt.Sprintf("extraction call to %s failed: %v", e.Model, e.Cause)
}

func (e *APICallError) Unwrap() error { return e.Cause }

// ParseError reports an extraction response that holds no usable JSON object.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("extraction response is not job details JSON: %v", e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

// ValidationError reports job details that decoded but cannot identify the job.
// Field names the offending property when a single one is to blame.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("incomplete job details: %s: %s", e.Field, e.Reason)
	}
	return "incomplete job details: " + e.Reason
}
