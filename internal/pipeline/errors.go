package pipeline

import "fmt"

// StageError aborts a stage. Cause is the failure of the item at Index.
type StageError struct {
	Stage string
	Index int
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage aborted at item %d: %v", e.Stage, e.Index, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// RetrievalError is a failure to fetch a job page.
type RetrievalError struct {
	JobID string
	URL   string
	Cause error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("failed to scrape job content for %s (%s): %v", e.JobID, e.URL, e.Cause)
}

func (e *RetrievalError) Unwrap() error {
	return e.Cause
}

// ExtractionError is a failure to turn page content into job details.
type ExtractionError struct {
	JobID string
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract job details for %s: %v", e.JobID, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// DraftError is a failure to create a draft for a record.
type DraftError struct {
	JobID   string
	Message string
	Cause   error
}

func (e *DraftError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("draft for %s: %s: %v", e.JobID, e.Message, e.Cause)
	}
	return fmt.Sprintf("draft for %s: %s", e.JobID, e.Message)
}

func (e *DraftError) Unwrap() error {
	return e.Cause
}
