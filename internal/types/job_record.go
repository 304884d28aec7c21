// Package types provides type definitions for structured data used throughout the job-outreach system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"
	"time"
)

// Status is the state of a single stage on a JobRecord.
type Status string

// Stable status values (persisted verbatim).
const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Statuses lists every status in report order.
var Statuses = []Status{StatusPending, StatusSuccess, StatusFailed}

// IsTerminal reports whether the status is success or failed.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// JobDetails is the structured extraction result for a scraped job page.
type JobDetails struct {
	JobRole     string   `json:"job_role,omitempty"`
	CompanyName string   `json:"company_name,omitempty"`
	RoleDetails FlexText `json:"role_details,omitempty"`
}

// FlexText is a string that also accepts arbitrary JSON values when decoding.
// Models frequently answer a "summary" field with a nested object or list; those
// are kept as compact JSON text instead of failing the whole extraction.
type FlexText string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexText) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexText(s)
		return nil
	}
	*f = FlexText(trimmed)
	return nil
}

// EmailContent is a generated outreach email.
type EmailContent struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// IsComplete reports whether both subject and body are non-blank.
func (c *EmailContent) IsComplete() bool {
	return c != nil && strings.TrimSpace(c.Subject) != "" && strings.TrimSpace(c.Body) != ""
}

// JobRecord is the persisted state of one job application.
// Each stage owns a disjoint set of fields and changes them only through the Mark* methods.
type JobRecord struct {
	JobID        string `json:"job_id"`
	JobLink      string `json:"job_link"`
	EmployerName string `json:"employer_name"`
	EmployerRole string `json:"employer_role"`
	EmailID      string `json:"email_id"`
	CompanyName  string `json:"company_name,omitempty"`
	JobRole      string `json:"job_role,omitempty"`

	// Scrape stage
	ScrapeStatus Status      `json:"scrape_status"`
	ScrapeError  string      `json:"scrape_error,omitempty"`
	ScrapedAt    *time.Time  `json:"scraped_at,omitempty"`
	JobDetails   *JobDetails `json:"job_details,omitempty"`

	// Generation and draft stages
	EmailStatus      Status        `json:"email_status"`
	EmailError       string        `json:"email_error,omitempty"`
	EmailGeneratedAt *time.Time    `json:"email_generated_at,omitempty"`
	EmailContent     *EmailContent `json:"email_content,omitempty"`
	DraftID          string        `json:"draft_id,omitempty"`
	DraftedAt        *time.Time    `json:"drafted_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewJobRecord creates a record for a freshly ingested contact with both statuses pending.
func NewJobRecord(id string, contact Contact, now time.Time) *JobRecord {
	return &JobRecord{
		JobID:        id,
		JobLink:      contact.JobLink,
		EmployerName: contact.EmployerName,
		EmployerRole: contact.EmployerRole,
		EmailID:      contact.EmailID,
		ScrapeStatus: StatusPending,
		EmailStatus:  StatusPending,
		CreatedAt:    now.UTC(),
	}
}

// MarkScraped records a successful scrape.
func (r *JobRecord) MarkScraped(details *JobDetails, at time.Time) {
	r.ScrapeStatus = StatusSuccess
	r.ScrapeError = ""
	r.ScrapedAt = timePtr(at)
	r.JobDetails = details
	if details != nil {
		r.CompanyName = details.CompanyName
		r.JobRole = details.JobRole
	}
}

// MarkScrapeFailed records a failed scrape.
func (r *JobRecord) MarkScrapeFailed(msg string, at time.Time) {
	r.ScrapeStatus = StatusFailed
	r.ScrapeError = msg
	r.ScrapedAt = timePtr(at)
}

// MarkEmailGenerated records generated email content.
func (r *JobRecord) MarkEmailGenerated(content *EmailContent, at time.Time) {
	r.EmailStatus = StatusSuccess
	r.EmailError = ""
	r.EmailGeneratedAt = timePtr(at)
	r.EmailContent = content
}

// MarkEmailFailed records a generation failure.
func (r *JobRecord) MarkEmailFailed(msg string, at time.Time) {
	r.EmailStatus = StatusFailed
	r.EmailError = msg
	r.EmailGeneratedAt = timePtr(at)
}

// MarkDrafted stores the provider draft id. It returns false and leaves the
// record untouched when a draft id is already present.
func (r *JobRecord) MarkDrafted(draftID string, at time.Time) bool {
	if r.HasDraft() {
		return false
	}
	r.DraftID = draftID
	r.EmailStatus = StatusSuccess
	r.EmailError = ""
	r.DraftedAt = timePtr(at)
	return true
}

// MarkDraftFailed records a draft-creation failure on the email sub-state.
func (r *JobRecord) MarkDraftFailed(msg string, at time.Time) {
	r.EmailStatus = StatusFailed
	r.EmailError = msg
	r.DraftedAt = timePtr(at)
}

// HasDraft reports whether a provider draft already exists.
func (r *JobRecord) HasDraft() bool {
	return strings.TrimSpace(r.DraftID) != ""
}

// ResetScrape puts a record back to scrape-pending. Only used for explicit reprocessing.
func (r *JobRecord) ResetScrape() {
	r.ScrapeStatus = StatusPending
	r.ScrapeError = ""
	r.ScrapedAt = nil
}

// ResetEmail puts a record back to email-pending. Existing drafts are kept.
func (r *JobRecord) ResetEmail() {
	r.EmailStatus = StatusPending
	r.EmailError = ""
	r.EmailGeneratedAt = nil
}

// Clone returns a deep copy of the record.
func (r *JobRecord) Clone() *JobRecord {
	c := *r
	if r.JobDetails != nil {
		d := *r.JobDetails
		c.JobDetails = &d
	}
	if r.EmailContent != nil {
		e := *r.EmailContent
		c.EmailContent = &e
	}
	c.ScrapedAt = copyTime(r.ScrapedAt)
	c.EmailGeneratedAt = copyTime(r.EmailGeneratedAt)
	c.DraftedAt = copyTime(r.DraftedAt)
	return &c
}

func timePtr(t time.Time) *time.Time {
	u := t.UTC()
	return &u
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
