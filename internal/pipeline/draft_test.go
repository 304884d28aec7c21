package pipeline

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-outreach/internal/store"
	"github.com/jonathan/job-outreach/internal/types"
)

func draftOpts(c DraftCreator) DraftOptions {
	return DraftOptions{Creator: c, Logger: zerolog.Nop(), Clock: testClock}
}

// generatedStore returns a store where every link has a generated email.
func generatedStore(t *testing.T, links ...string) (*store.Store, *store.MemoryBackend) {
	t.Helper()
	s, backend := newTestStore(t, links...)
	ctx := context.Background()
	for _, rec := range s.List() {
		require.NoError(t, s.Update(ctx, rec.JobID, func(r *types.JobRecord) {
			r.MarkScraped(&types.JobDetails{JobRole: "Engineer", CompanyName: "Acme"}, testTime)
			r.MarkEmailGenerated(&types.EmailContent{Subject: "Hello", Body: "Hi there"}, testTime)
		}))
	}
	return s, backend
}

func TestDraft_Success(t *testing.T) {
	s, _ := generatedStore(t, linkA, linkB)
	creator := &fakeCreator{}

	res, err := Draft(context.Background(), s, []string{"job-1", "job-2"}, draftOpts(creator))
	require.NoError(t, err)

	assert.Equal(t, []string{"a@example.com", "b@example.com"}, creator.calls)
	assert.Equal(t, Summary{Attempted: 2, Succeeded: 2}, res.Summary)

	rec := mustGet(t, s, "job-1")
	assert.Equal(t, "draft-a@example.com", rec.DraftID)
	assert.Equal(t, types.StatusSuccess, rec.EmailStatus)
	require.NotNil(t, rec.DraftedAt)
	assert.True(t, testTime.Equal(*rec.DraftedAt))

	// The output is the full store projection.
	assert.Equal(t, store.TableColumns, res.Table.Columns)
	assert.Equal(t, []string{"draft-a@example.com", "draft-b@example.com"}, res.Table.Column("draft_id"))
}

func TestDraft_NeverRedrafts(t *testing.T) {
	s, _ := generatedStore(t, linkA)
	creator := &fakeCreator{}

	_, err := Draft(context.Background(), s, []string{"job-1"}, draftOpts(creator))
	require.NoError(t, err)
	res, err := Draft(context.Background(), s, []string{"job-1"}, draftOpts(creator))
	require.NoError(t, err)

	assert.Len(t, creator.calls, 1)
	assert.Equal(t, 1, res.Summary.Skipped)
	assert.Equal(t, "draft-a@example.com", mustGet(t, s, "job-1").DraftID)
}

func TestDraft_MissingBodyContinues(t *testing.T) {
	s, _ := generatedStore(t, linkA, linkB)
	require.NoError(t, s.Update(context.Background(), "job-1", func(r *types.JobRecord) {
		r.EmailContent = &types.EmailContent{Subject: "Hello"}
	}))
	creator := &fakeCreator{}

	res, err := Draft(context.Background(), s, []string{"job-1", "job-2"}, draftOpts(creator))
	require.NoError(t, err)

	assert.Equal(t, []string{"b@example.com"}, creator.calls, "the run continues after the invalid record")
	assert.Equal(t, Summary{Attempted: 2, Succeeded: 1, Failed: 1}, res.Summary)

	rec := mustGet(t, s, "job-1")
	assert.Equal(t, types.StatusFailed, rec.EmailStatus)
	assert.Contains(t, rec.EmailError, "invalid email content")
	assert.Contains(t, rec.EmailError, "body is required")
	assert.Empty(t, rec.DraftID)
}

func TestDraft_InvalidDestination(t *testing.T) {
	s, _ := generatedStore(t, linkA)
	require.NoError(t, s.Update(context.Background(), "job-1", func(r *types.JobRecord) { r.EmailID = "nobody" }))
	creator := &fakeCreator{}

	_, err := Draft(context.Background(), s, []string{"job-1"}, draftOpts(creator))
	require.NoError(t, err)

	assert.Empty(t, creator.calls)
	assert.Contains(t, mustGet(t, s, "job-1").EmailError, `destination address must contain "@"`)
}

func TestDraft_ProviderFailures(t *testing.T) {
	s, _ := generatedStore(t, linkA, linkB, linkC)
	creator := &fakeCreator{
		errs:     map[string]error{"a@example.com": errBoom},
		emptyIDs: map[string]bool{"b@example.com": true},
	}

	res, err := Draft(context.Background(), s, []string{"job-1", "job-2", "job-3"}, draftOpts(creator))
	require.NoError(t, err)

	assert.Len(t, creator.calls, 3)
	assert.Equal(t, Summary{Attempted: 3, Succeeded: 1, Failed: 2}, res.Summary)

	a := mustGet(t, s, "job-1")
	assert.Equal(t, types.StatusFailed, a.EmailStatus)
	assert.Contains(t, a.EmailError, "failed to create draft: boom")

	b := mustGet(t, s, "job-2")
	assert.Equal(t, types.StatusFailed, b.EmailStatus)
	assert.Contains(t, b.EmailError, "empty draft id")
	assert.Empty(t, b.DraftID)

	assert.Equal(t, "draft-c@example.com", mustGet(t, s, "job-3").DraftID)
}

func TestDraft_RecoversContentFromDocument(t *testing.T) {
	s, backend := newTestStore(t, linkA)
	ctx := context.Background()
	require.NoError(t, s.Update(ctx, "job-1", func(r *types.JobRecord) {
		r.MarkScraped(&types.JobDetails{JobRole: "Engineer"}, testTime)
		r.EmailStatus = types.StatusSuccess
	}))

	// Another writer left the content in the document as a JSON-encoded string
	// while the in-memory record has none.
	require.NoError(t, backend.Write(ctx, []byte(`{
  "job-1": {
    "job_id": "job-1",
    "job_link": "https://jobs.example.com/a",
    "email_id": "a@example.com",
    "email_content": "{\"subject\": \"Recovered\", \"body\": \"From disk\"}"
  }
}`)))

	creator := &fakeCreator{}
	res, err := Draft(ctx, s, []string{"job-1"}, draftOpts(creator))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Summary.Succeeded)
	assert.Equal(t, []string{"a@example.com"}, creator.calls)
	assert.Equal(t, "draft-a@example.com", mustGet(t, s, "job-1").DraftID)
}

func TestDraft_NoContentAnywhere(t *testing.T) {
	s, _ := newTestStore(t, linkA)
	require.NoError(t, s.Update(context.Background(), "job-1", func(r *types.JobRecord) {
		r.EmailStatus = types.StatusSuccess
	}))
	creator := &fakeCreator{}

	res, err := Draft(context.Background(), s, []string{"job-1"}, draftOpts(creator))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Summary.Failed)
	assert.Empty(t, creator.calls)
	assert.Contains(t, mustGet(t, s, "job-1").EmailError, "no email content")
}

func TestDraft_UnknownJobSkipped(t *testing.T) {
	s, _ := generatedStore(t)
	creator := &fakeCreator{}

	res, err := Draft(context.Background(), s, []string{"ghost"}, draftOpts(creator))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.Skipped)
	assert.Empty(t, creator.calls)
}

func TestPendingDrafts(t *testing.T) {
	s, _ := generatedStore(t, linkA, linkB)
	require.NoError(t, s.Update(context.Background(), "job-1", func(r *types.JobRecord) { r.MarkDrafted("d1", testTime) }))

	assert.Equal(t, []string{"job-2"}, PendingDrafts(s))
}
