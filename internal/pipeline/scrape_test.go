package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-outreach/internal/store"
	"github.com/jonathan/job-outreach/internal/types"
)

const (
	linkA = "https://jobs.example.com/a"
	linkB = "https://jobs.example.com/b"
	linkC = "https://jobs.example.com/c"
)

func scrapeOpts(r Retriever, e Extractor) ScrapeOptions {
	return ScrapeOptions{Retriever: r, Extractor: e, Logger: zerolog.Nop(), Clock: testClock}
}

func TestScrape_Success(t *testing.T) {
	s, _ := newTestStore(t, linkA, linkB)
	retriever := &fakeRetriever{}

	res, err := Scrape(context.Background(), s, scrapeOpts(retriever, &fakeExtractor{}))
	require.NoError(t, err)

	assert.Equal(t, []string{linkA, linkB}, retriever.calls)
	assert.Equal(t, Summary{Attempted: 2, Succeeded: 2}, res.Summary)
	assert.Equal(t, ScrapeColumns, res.Table.Columns)
	assert.Equal(t, []string{"job-1", "job-2"}, res.Table.Column("job_id"))
	assert.Equal(t, []string{"Company A", "Company B"}, res.Table.Column("company_name"))
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, res.Table.Column("email_id"))

	rec := mustGet(t, s, "job-1")
	assert.Equal(t, types.StatusSuccess, rec.ScrapeStatus)
	assert.Empty(t, rec.ScrapeError)
	require.NotNil(t, rec.ScrapedAt)
	assert.True(t, testTime.Equal(*rec.ScrapedAt))
	assert.Equal(t, "Company A", rec.CompanyName)
	assert.Equal(t, "Engineer", rec.JobRole)
	assert.Equal(t, "Details for a", string(rec.JobDetails.RoleDetails))
	assert.Equal(t, types.StatusPending, rec.EmailStatus)
}

func TestScrape_StaleJobIDInDocument(t *testing.T) {
	backend := store.NewMemoryBackend([]byte(`{"key-1": {"job_id": "other-id", "job_link": "` + linkA + `", "email_id": "a@example.com", "scrape_status": "pending", "email_status": "pending", "created_at": "2026-03-04T10:00:00Z"}}`))
	s, err := store.Open(context.Background(), backend, zerolog.Nop())
	require.NoError(t, err)

	res, err := Scrape(context.Background(), s, scrapeOpts(&fakeRetriever{}, &fakeExtractor{}))
	require.NoError(t, err)
	assert.Equal(t, Summary{Attempted: 1, Succeeded: 1}, res.Summary)
	assert.Equal(t, types.StatusSuccess, mustGet(t, s, "key-1").ScrapeStatus)
}

func TestScrape_NothingPending(t *testing.T) {
	s, _ := newTestStore(t)
	res, err := Scrape(context.Background(), s, scrapeOpts(&fakeRetriever{}, &fakeExtractor{}))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Table.Len())
	assert.Equal(t, ScrapeColumns, res.Table.Columns)
}

func TestScrape_RetrievalFailureAbortsStage(t *testing.T) {
	s, backend := newTestStore(t, linkA, linkB, linkC)
	retriever := &fakeRetriever{errs: map[string]error{linkB: errBoom}}
	extractor := &fakeExtractor{}

	res, err := Scrape(context.Background(), s, scrapeOpts(retriever, extractor))

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	var retrievalErr *RetrievalError
	require.ErrorAs(t, err, &retrievalErr)
	assert.Equal(t, "job-2", retrievalErr.JobID)
	assert.ErrorIs(t, err, errBoom)

	assert.Equal(t, []string{linkA, linkB}, retriever.calls, "no record after the failure is attempted")
	assert.Equal(t, 1, extractor.calls)
	assert.Equal(t, []string{"job-1"}, res.Table.Column("job_id"))

	failed := mustGet(t, s, "job-2")
	assert.Equal(t, types.StatusFailed, failed.ScrapeStatus)
	assert.Equal(t, "failed to scrape job content: boom", failed.ScrapeError)
	assert.NotNil(t, failed.ScrapedAt)
	assert.Equal(t, types.StatusPending, mustGet(t, s, "job-3").ScrapeStatus)

	// The failure is persisted before the abort.
	assert.Contains(t, string(backend.Bytes()), "failed to scrape job content: boom")
}

func TestScrape_EmptyContentFails(t *testing.T) {
	s, _ := newTestStore(t, linkA, linkB)
	retriever := &fakeRetriever{empty: map[string]bool{linkA: true}}

	_, err := Scrape(context.Background(), s, scrapeOpts(retriever, &fakeExtractor{}))

	var retrievalErr *RetrievalError
	require.ErrorAs(t, err, &retrievalErr)
	assert.Equal(t, []string{linkA}, retriever.calls)
	assert.Contains(t, mustGet(t, s, "job-1").ScrapeError, "no content retrieved")
}

func TestScrape_ExtractionFailureAbortsStage(t *testing.T) {
	s, _ := newTestStore(t, linkA, linkB)
	retriever := &fakeRetriever{}
	extractor := &fakeExtractor{fail: map[string]error{"a": errors.New("no role found")}}

	res, err := Scrape(context.Background(), s, scrapeOpts(retriever, extractor))

	var extractionErr *ExtractionError
	require.ErrorAs(t, err, &extractionErr)
	assert.Equal(t, "job-1", extractionErr.JobID)
	assert.Equal(t, []string{linkA}, retriever.calls)
	assert.Equal(t, 0, res.Table.Len())

	rec := mustGet(t, s, "job-1")
	assert.Equal(t, types.StatusFailed, rec.ScrapeStatus)
	assert.Equal(t, "failed to extract job details: no role found", rec.ScrapeError)
	assert.Nil(t, rec.JobDetails)
}

func TestScrape_TerminalStatusNeverChanges(t *testing.T) {
	s, _ := newTestStore(t, linkA, linkB)

	_, err := Scrape(context.Background(), s, scrapeOpts(&fakeRetriever{errs: map[string]error{linkA: errBoom}}, &fakeExtractor{}))
	require.Error(t, err)

	// A later run with a healthy retriever leaves the failed record alone.
	retriever := &fakeRetriever{}
	_, err = Scrape(context.Background(), s, scrapeOpts(retriever, &fakeExtractor{}))
	require.NoError(t, err)

	assert.Equal(t, []string{linkB}, retriever.calls)
	assert.Equal(t, types.StatusFailed, mustGet(t, s, "job-1").ScrapeStatus)
	assert.Equal(t, types.StatusSuccess, mustGet(t, s, "job-2").ScrapeStatus)

	// And a third run touches nothing at all.
	retriever = &fakeRetriever{}
	res, err := Scrape(context.Background(), s, scrapeOpts(retriever, &fakeExtractor{}))
	require.NoError(t, err)
	assert.Empty(t, retriever.calls)
	assert.Equal(t, 0, res.Table.Len())
}

func TestScrape_PersistFailureAborts(t *testing.T) {
	s, backend := newTestStore(t, linkA, linkB)
	backend.FailWrites = true
	retriever := &fakeRetriever{}

	_, err := Scrape(context.Background(), s, scrapeOpts(retriever, &fakeExtractor{}))
	require.Error(t, err)
	assert.Equal(t, []string{linkA}, retriever.calls)
}
