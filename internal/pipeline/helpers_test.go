package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-outreach/internal/composing"
	"github.com/jonathan/job-outreach/internal/ingestion"
	"github.com/jonathan/job-outreach/internal/store"
	"github.com/jonathan/job-outreach/internal/types"
)

var testTime = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

func testClock() time.Time { return testTime }

func contact(link string) types.Contact {
	name := strings.TrimPrefix(link, "https://jobs.example.com/")
	return types.Contact{
		EmployerName: "Recruiter " + name,
		EmployerRole: "Recruiter",
		EmailID:      name + "@example.com",
		JobLink:      link,
	}
}

// newTestStore ingests one contact per link with ids job-1, job-2, ...
func newTestStore(t *testing.T, links ...string) (*store.Store, *store.MemoryBackend) {
	t.Helper()
	backend := store.NewMemoryBackend(nil)
	s := store.New(backend, zerolog.Nop())

	contacts := make([]types.Contact, 0, len(links))
	for _, l := range links {
		contacts = append(contacts, contact(l))
	}
	n := 0
	_, err := ingestion.Ingest(context.Background(), s, contacts, ingestion.Options{
		Logger: zerolog.Nop(),
		NewID:  func() string { n++; return fmt.Sprintf("job-%d", n) },
		Now:    testClock,
	})
	require.NoError(t, err)
	return s, backend
}

func mustGet(t *testing.T, s *store.Store, id string) *types.JobRecord {
	t.Helper()
	rec, err := s.Get(id)
	require.NoError(t, err)
	return rec
}

type fakeRetriever struct {
	errs  map[string]error
	empty map[string]bool
	calls []string
}

func (f *fakeRetriever) Fetch(_ context.Context, url string) (string, error) {
	f.calls = append(f.calls, url)
	if err := f.errs[url]; err != nil {
		return "", err
	}
	if f.empty[url] {
		return "   ", nil
	}
	return "# Posting\n\npage for " + url, nil
}

type fakeExtractor struct {
	fail  map[string]error
	calls int
}

// Extract names the company after the last path segment of the page's URL.
func (f *fakeExtractor) Extract(_ context.Context, content string) (*types.JobDetails, error) {
	f.calls++
	name := content[strings.LastIndex(content, "/")+1:]
	if err := f.fail[name]; err != nil {
		return nil, err
	}
	return &types.JobDetails{
		JobRole:     "Engineer",
		CompanyName: "Company " + strings.ToUpper(name),
		RoleDetails: types.FlexText("Details for " + name),
	}, nil
}

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func newComposer(gen composing.Generator) *composing.Composer {
	return &composing.Composer{
		Profile:   types.SenderProfile{Name: "Jordan Lee", Role: "Software Engineer"},
		Generator: gen,
		Timeout:   time.Second,
		Logger:    zerolog.Nop(),
	}
}

func okGenerator() composing.Generator {
	return generatorFunc(func(context.Context, string) (string, error) {
		return `{"subject": "Generated subject", "body": "Generated body"}`, nil
	})
}

type fakeCreator struct {
	errs     map[string]error
	emptyIDs map[string]bool
	calls    []string
}

func (f *fakeCreator) CreateDraft(_ context.Context, to, _, _ string) (string, error) {
	f.calls = append(f.calls, to)
	if err := f.errs[to]; err != nil {
		return "", err
	}
	if f.emptyIDs[to] {
		return "", nil
	}
	return "draft-" + to, nil
}

var errBoom = errors.New("boom")
