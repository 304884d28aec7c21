package pipeline

import (
	"context"
	"time"

	"github.com/jonathan/job-outreach/internal/composing"
	"github.com/jonathan/job-outreach/internal/types"
)

// Retriever fetches the readable content of a job page.
type Retriever interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Extractor turns page content into job details.
type Extractor interface {
	Extract(ctx context.Context, content string) (*types.JobDetails, error)
}

// Composer writes the outreach email for a scraped record. It never fails.
type Composer interface {
	Compose(ctx context.Context, rec *types.JobRecord) *composing.Result
}

// DraftCreator stores an email draft with the provider and returns its id.
type DraftCreator interface {
	CreateDraft(ctx context.Context, to, subject, body string) (string, error)
}

// Stage names used in logs, errors and the CLI.
const (
	StageScrape   = "scrape"
	StageGenerate = "generate"
	StageDraft    = "draft"
)

// Clock returns the current time. Tests replace it for stable timestamps.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
