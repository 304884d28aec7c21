package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/job-outreach/internal/export"
	"github.com/jonathan/job-outreach/internal/store"
	"github.com/jonathan/job-outreach/internal/types"
)

var (
	errEmptyContent = errors.New("no content retrieved")
	errNoDetails    = errors.New("no job details returned")
)

// ScrapeColumns are the columns of the scrape output table.
var ScrapeColumns = []string{
	"job_id", "job_link", "company_name", "job_role", "role_details",
	"employer_name", "employer_role", "email_id", "scraped_at",
}

// ScrapeOptions configures the scrape stage.
type ScrapeOptions struct {
	Retriever Retriever
	Extractor Extractor
	Logger    zerolog.Logger
	Clock     Clock
}

// ScrapeResult holds the records scraped in this run.
type ScrapeResult struct {
	Table   *export.Table
	Summary Summary
}

// Scrape fetches and extracts every scrape-pending record in store order.
// The first retrieval or extraction failure marks that record failed, persists
// it and aborts the stage with a *StageError. The returned result is valid
// either way and holds the rows scraped before the abort.
func Scrape(ctx context.Context, s *store.Store, opts ScrapeOptions) (*ScrapeResult, error) {
	log := opts.Logger
	pending := s.Filter(func(r *types.JobRecord) bool { return r.ScrapeStatus == types.StatusPending })
	result := &ScrapeResult{Table: export.NewTable("job_details_scraped", ScrapeColumns...)}

	log.Info().Int("pending", len(pending)).Msg("starting scrape")

	sum, err := Process(ctx, StageScrape, pending, FailFast, func(ctx context.Context, rec *types.JobRecord) error {
		rlog := log.With().Str("job_id", rec.JobID).Str("job_link", rec.JobLink).Logger()

		content, err := opts.Retriever.Fetch(ctx, rec.JobLink)
		if err == nil && strings.TrimSpace(content) == "" {
			err = errEmptyContent
		}
		if err != nil {
			rlog.Error().Err(err).Msg("retrieval failed")
			return markScrapeFailed(ctx, s, rec.JobID, "failed to scrape job content: "+err.Error(), opts.Clock,
				&RetrievalError{JobID: rec.JobID, URL: rec.JobLink, Cause: err})
		}

		details, err := opts.Extractor.Extract(ctx, content)
		if err == nil && details == nil {
			err = errNoDetails
		}
		if err != nil {
			rlog.Error().Err(err).Msg("extraction failed")
			return markScrapeFailed(ctx, s, rec.JobID, "failed to extract job details: "+err.Error(), opts.Clock,
				&ExtractionError{JobID: rec.JobID, Cause: err})
		}

		at := opts.Clock.now()
		if err := s.Update(ctx, rec.JobID, func(r *types.JobRecord) { r.MarkScraped(details, at) }); err != nil {
			return err
		}

		_ = result.Table.Append(
			rec.JobID, rec.JobLink, details.CompanyName, details.JobRole, string(details.RoleDetails),
			rec.EmployerName, rec.EmployerRole, rec.EmailID, store.FormatTime(&at),
		)
		rlog.Info().Str("company", details.CompanyName).Str("role", details.JobRole).Msg("scraped job")
		return nil
	})

	result.Summary = sum
	log.Info().Stringer("summary", sum).Msg("scrape finished")
	return result, err
}

// markScrapeFailed persists the failure before handing cause back to the driver.
func markScrapeFailed(ctx context.Context, s *store.Store, jobID, msg string, clock Clock, cause error) error {
	at := clock.now()
	if err := s.Update(ctx, jobID, func(r *types.JobRecord) { r.MarkScrapeFailed(msg, at) }); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}
