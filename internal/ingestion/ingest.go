package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jonathan/job-outreach/internal/store"
	"github.com/jonathan/job-outreach/internal/types"
)

// Result counts what an ingestion did.
type Result struct {
	Added   int
	Skipped int
}

// Options configures Ingest.
type Options struct {
	Logger zerolog.Logger
	// NewID generates job ids. Defaults to random UUIDs.
	NewID func() string
	// Now returns the creation time. Defaults to time.Now.
	Now func() time.Time
}

// Ingest creates a pending job record for every contact whose job link is not yet
// tracked. Links already in the store, links repeated within contacts and empty
// links are skipped. Each new record is persisted as soon as it is added.
func Ingest(ctx context.Context, s *store.Store, contacts []types.Contact, opts Options) (*Result, error) {
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger

	seen := s.Links()
	result := &Result{}
	for i, c := range contacts {
		if c.JobLink == "" {
			log.Warn().Int("row", i+1).Str("employer", c.EmployerName).Msg("skipping contact without job link")
			result.Skipped++
			continue
		}
		if _, ok := seen[c.JobLink]; ok {
			log.Debug().Str("job_link", c.JobLink).Msg("job link already tracked")
			result.Skipped++
			continue
		}

		rec := types.NewJobRecord(opts.NewID(), c, opts.Now())
		if err := s.Add(ctx, rec); err != nil {
			return result, fmt.Errorf("failed to add job for %s: %w", c.JobLink, err)
		}
		seen[c.JobLink] = struct{}{}
		result.Added++
		log.Info().Str("job_id", rec.JobID).Str("job_link", c.JobLink).Msg("added job")
	}
	return result, nil
}
