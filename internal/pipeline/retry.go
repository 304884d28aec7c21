package pipeline

import (
	"context"
	"fmt"

	"github.com/jonathan/job-outreach/internal/store"
	"github.com/jonathan/job-outreach/internal/types"
)

// Retryable stages for explicit reprocessing.
const (
	RetryScrape = "scrape"
	RetryEmail  = "email"
)

// RetryOptions selects the failed records to put back to pending.
type RetryOptions struct {
	Stage string
	// JobID limits the reset to one record. Empty means every failed record.
	JobID string
}

// Retry resets failed records of a stage to pending so the next run picks them
// up again. It is never called by the stages themselves. Drafts already created
// are kept. It returns the ids that were reset.
func Retry(ctx context.Context, s *store.Store, opts RetryOptions) ([]string, error) {
	var failed func(*types.JobRecord) bool
	var reset func(*types.JobRecord)

	switch opts.Stage {
	case RetryScrape:
		failed = func(r *types.JobRecord) bool { return r.ScrapeStatus == types.StatusFailed }
		reset = (*types.JobRecord).ResetScrape
	case RetryEmail:
		failed = func(r *types.JobRecord) bool { return r.EmailStatus == types.StatusFailed }
		reset = (*types.JobRecord).ResetEmail
	default:
		return nil, fmt.Errorf("unknown retry stage %q (want %s or %s)", opts.Stage, RetryScrape, RetryEmail)
	}

	var targets []*types.JobRecord
	if opts.JobID != "" {
		rec, err := s.Get(opts.JobID)
		if err != nil {
			return nil, err
		}
		if failed(rec) {
			targets = append(targets, rec)
		}
	} else {
		targets = s.Filter(failed)
	}

	ids := jobIDs(targets)
	for _, id := range ids {
		if err := s.Update(ctx, id, reset); err != nil {
			return nil, fmt.Errorf("failed to reset %s: %w", id, err)
		}
	}
	return ids, nil
}
