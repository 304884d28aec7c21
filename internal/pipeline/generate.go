package pipeline

import (
	"context"
	"errors"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jonathan/job-outreach/internal/export"
	"github.com/jonathan/job-outreach/internal/store"
	"github.com/jonathan/job-outreach/internal/types"
)

// GenerateColumns are the columns of the generation output table.
var GenerateColumns = []string{
	"job_id", "company_name", "job_role", "employer_name", "email_id",
	"subject", "body", "generated_at", "fallback",
}

// GenerateOptions configures the generation stage.
type GenerateOptions struct {
	Composer Composer
	Logger   zerolog.Logger
	Clock    Clock
}

// GenerateResult holds the emails generated in this run.
type GenerateResult struct {
	Table   *export.Table
	Summary Summary
}

// PendingGeneration returns the ids of scraped records still waiting for an email.
func PendingGeneration(s *store.Store) []string {
	return jobIDs(s.Filter(func(r *types.JobRecord) bool {
		return r.ScrapeStatus == types.StatusSuccess && r.EmailStatus == types.StatusPending
	}))
}

// Generate composes an email for each listed record whose email is pending.
// Unknown ids and records that are not pending are skipped. A record without
// job details is marked failed and the stage moves on.
func Generate(ctx context.Context, s *store.Store, ids []string, opts GenerateOptions) (*GenerateResult, error) {
	log := opts.Logger
	result := &GenerateResult{Table: export.NewTable("generated_emails", GenerateColumns...)}

	log.Info().Int("jobs", len(ids)).Msg("starting email generation")

	sum, err := Process(ctx, StageGenerate, ids, ContinueOnError, func(ctx context.Context, id string) error {
		rlog := log.With().Str("job_id", id).Logger()

		rec, err := s.Get(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				rlog.Warn().Err(err).Msg("job not in store, skipping")
				return ErrSkipped
			}
			return err
		}
		if rec.EmailStatus != types.StatusPending {
			rlog.Debug().Str("email_status", string(rec.EmailStatus)).Msg("email already processed, skipping")
			return ErrSkipped
		}

		if rec.ScrapeStatus != types.StatusSuccess {
			rlog.Debug().Str("scrape_status", string(rec.ScrapeStatus)).Msg("job not scraped yet, skipping")
			return ErrSkipped
		}
		if rec.JobDetails == nil {
			msg := "missing job details: scrape succeeded without extracted details"
			at := opts.Clock.now()
			rlog.Error().Msg(msg)
			if err := s.Update(ctx, id, func(r *types.JobRecord) { r.MarkEmailFailed(msg, at) }); err != nil {
				return err
			}
			return errors.New(msg)
		}

		res := opts.Composer.Compose(ctx, rec)
		at := opts.Clock.now()
		if err := s.Update(ctx, id, func(r *types.JobRecord) { r.MarkEmailGenerated(res.Email, at) }); err != nil {
			rlog.Error().Err(err).Msg("failed to persist generated email")
			return err
		}

		_ = result.Table.Append(
			rec.JobID, rec.JobDetails.CompanyName, rec.JobDetails.JobRole, rec.EmployerName, rec.EmailID,
			res.Email.Subject, res.Email.Body, store.FormatTime(&at), strconv.FormatBool(res.Fallback),
		)
		rlog.Info().Bool("fallback", res.Fallback).Msg("generated email")
		return nil
	})

	result.Summary = sum
	log.Info().Stringer("summary", sum).Msg("email generation finished")
	return result, err
}

func jobIDs(recs []*types.JobRecord) []string {
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.JobID)
	}
	return ids
}
