package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jonathan/job-outreach/internal/export"
	"github.com/jonathan/job-outreach/internal/store"
	"github.com/jonathan/job-outreach/internal/types"
)

// DraftOptions configures the draft stage.
type DraftOptions struct {
	Creator DraftCreator
	Logger  zerolog.Logger
	Clock   Clock
}

// DraftResult holds the store snapshot after drafting.
type DraftResult struct {
	Table   *export.Table
	Summary Summary
}

// draftRequest is what the provider receives for one record.
type draftRequest struct {
	To      string `validate:"required,contains=@"`
	Subject string `validate:"required"`
	Body    string `validate:"required"`
}

var draftValidator = validator.New()

// PendingDrafts returns the ids of records with a generated email and no draft yet.
func PendingDrafts(s *store.Store) []string {
	return jobIDs(s.Filter(func(r *types.JobRecord) bool {
		return r.EmailStatus == types.StatusSuccess && !r.HasDraft()
	}))
}

// Draft creates a provider draft for each listed record that has none.
// Failures are recorded on the record and the stage continues.
func Draft(ctx context.Context, s *store.Store, ids []string, opts DraftOptions) (*DraftResult, error) {
	log := opts.Logger
	log.Info().Int("jobs", len(ids)).Msg("starting draft creation")

	sum, err := Process(ctx, StageDraft, ids, ContinueOnError, func(ctx context.Context, id string) error {
		rlog := log.With().Str("job_id", id).Logger()

		rec, err := s.Get(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				rlog.Warn().Err(err).Msg("job not in store, skipping")
				return ErrSkipped
			}
			return err
		}
		if rec.HasDraft() {
			rlog.Debug().Str("draft_id", rec.DraftID).Msg("draft already exists, skipping")
			return ErrSkipped
		}

		req, err := resolveDraftRequest(ctx, s, rec)
		if err != nil {
			rlog.Error().Err(err).Msg("invalid email content")
			return markDraftFailed(ctx, s, id, err, opts.Clock)
		}

		draftID, err := opts.Creator.CreateDraft(ctx, req.To, req.Subject, req.Body)
		if err == nil && strings.TrimSpace(draftID) == "" {
			err = &DraftError{JobID: id, Message: "provider returned an empty draft id"}
		}
		if err != nil {
			rlog.Error().Err(err).Msg("draft creation failed")
			var de *DraftError
			if !errors.As(err, &de) {
				err = &DraftError{JobID: id, Message: "failed to create draft", Cause: err}
			}
			return markDraftFailed(ctx, s, id, err, opts.Clock)
		}

		at := opts.Clock.now()
		if err := s.Update(ctx, id, func(r *types.JobRecord) { r.MarkDrafted(draftID, at) }); err != nil {
			return err
		}
		rlog.Info().Str("draft_id", draftID).Msg("created draft")
		return nil
	})

	log.Info().Int("succeeded", sum.Succeeded).Int("failed", sum.Failed).Int("skipped", sum.Skipped).
		Msg("draft creation finished")
	return &DraftResult{Table: s.ToTable(), Summary: sum}, err
}

// resolveDraftRequest takes the email from the record, falling back to the
// persisted document, and validates it with the destination address.
func resolveDraftRequest(ctx context.Context, s *store.Store, rec *types.JobRecord) (*draftRequest, error) {
	content := rec.EmailContent
	if content == nil {
		recovered, err := s.RecoverEmailContent(ctx, rec.JobID)
		if err != nil {
			return nil, &DraftError{JobID: rec.JobID, Message: "failed to recover email content", Cause: err}
		}
		content = recovered
	}
	if content == nil {
		return nil, &DraftError{JobID: rec.JobID, Message: "invalid email content: no email content"}
	}

	req := &draftRequest{
		To:      strings.TrimSpace(rec.EmailID),
		Subject: strings.TrimSpace(content.Subject),
		Body:    strings.TrimSpace(content.Body),
	}
	if err := draftValidator.Struct(req); err != nil {
		return nil, &DraftError{JobID: rec.JobID, Message: "invalid email content: " + describeValidation(err)}
	}
	// Trimming is only for validation; the draft keeps the original text.
	req.Subject, req.Body = content.Subject, content.Body
	return req, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if field == "to" {
			field = "destination address"
		}
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "contains":
			parts = append(parts, fmt.Sprintf("%s must contain %q", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, ", ")
}

func markDraftFailed(ctx context.Context, s *store.Store, jobID string, cause error, clock Clock) error {
	at := clock.now()
	if err := s.Update(ctx, jobID, func(r *types.JobRecord) { r.MarkDraftFailed(cause.Error(), at) }); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}
