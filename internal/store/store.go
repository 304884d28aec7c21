package store

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/job-outreach/internal/export"
	"github.com/jonathan/job-outreach/internal/types"
)

// Store is the in-memory index of job records, keyed by job id, with job link as a
// uniqueness index. Every mutation is followed by a full re-serialization of the
// document (write-through). It is not safe for concurrent use.
type Store struct {
	backend Backend
	log     zerolog.Logger

	records map[string]*types.JobRecord
	order   []string
	links   map[string]string
}

// New creates an empty store over backend. Call Load to read the persisted document.
func New(backend Backend, log zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		log:     log,
		records: make(map[string]*types.JobRecord),
		links:   make(map[string]string),
	}
}

// Open creates a store and loads its document.
func Open(ctx context.Context, backend Backend, log zerolog.Logger) (*Store, error) {
	s := New(backend, log)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory state with the persisted document.
// An absent document yields an empty store. A malformed document is logged and
// also yields an empty store, so a run can always proceed. Only backend I/O
// failures are returned.
func (s *Store) Load(ctx context.Context) error {
	s.reset()

	data, err := s.backend.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrNoDocument) {
			s.log.Debug().Msg("no persisted document, starting with an empty store")
			return nil
		}
		return err
	}

	order, records, err := decodeDocument(data)
	if err != nil {
		s.log.Error().Err(err).Msg("persisted document is malformed, starting with an empty store")
		return nil
	}

	for _, id := range order {
		rec := records[id]
		if existing, dup := s.links[rec.JobLink]; dup {
			s.log.Warn().Str("job_id", id).Str("existing_job_id", existing).Str("job_link", rec.JobLink).
				Msg("duplicate job link in persisted document")
		} else {
			s.links[rec.JobLink] = id
		}
		s.records[id] = rec
		s.order = append(s.order, id)
	}

	s.log.Debug().Int("jobs", len(s.order)).Msg("loaded job store")
	return nil
}

// Add inserts or overwrites a record by job id and persists immediately.
func (s *Store) Add(ctx context.Context, rec *types.JobRecord) error {
	if existing, ok := s.links[rec.JobLink]; ok && existing != rec.JobID {
		return &DuplicateLinkError{JobLink: rec.JobLink, ExistingID: existing}
	}

	if prev, ok := s.records[rec.JobID]; ok {
		if prev.JobLink != rec.JobLink {
			delete(s.links, prev.JobLink)
		}
	} else {
		s.order = append(s.order, rec.JobID)
	}
	s.records[rec.JobID] = rec.Clone()
	s.links[rec.JobLink] = rec.JobID

	return s.Save(ctx)
}

// Get returns a copy of the record with the given id.
func (s *Store) Get(jobID string) (*types.JobRecord, error) {
	rec, ok := s.records[jobID]
	if !ok {
		return nil, &NotFoundError{JobID: jobID}
	}
	return rec.Clone(), nil
}

// List returns copies of all records in insertion order.
func (s *Store) List() []*types.JobRecord {
	out := make([]*types.JobRecord, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id].Clone())
	}
	return out
}

// Filter returns copies of the records matching keep, in insertion order.
func (s *Store) Filter(keep func(*types.JobRecord) bool) []*types.JobRecord {
	var out []*types.JobRecord
	for _, id := range s.order {
		if rec := s.records[id]; keep(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.order)
}

// HasLink reports whether a job link is already tracked.
func (s *Store) HasLink(link string) bool {
	_, ok := s.links[link]
	return ok
}

// Links returns the set of tracked job links.
func (s *Store) Links() map[string]struct{} {
	out := make(map[string]struct{}, len(s.links))
	for link := range s.links {
		out[link] = struct{}{}
	}
	return out
}

// Update applies fn to the stored record and persists the whole document.
// The in-memory change is kept even if persisting fails; the next successful
// save writes it out.
func (s *Store) Update(ctx context.Context, jobID string, fn func(rec *types.JobRecord)) error {
	rec, ok := s.records[jobID]
	if !ok {
		return &NotFoundError{JobID: jobID}
	}
	link := rec.JobLink
	fn(rec)
	if rec.JobLink != link {
		// job_link is the natural key and never changes after ingestion.
		rec.JobLink = link
	}
	return s.Save(ctx)
}

// Save serializes every record and overwrites the persisted document.
func (s *Store) Save(ctx context.Context) error {
	data, err := encodeDocument(s.order, s.records)
	if err != nil {
		return &PersistError{Message: "failed to encode document", Cause: err}
	}
	if err := s.backend.Write(ctx, data); err != nil {
		return &PersistError{Message: "failed to write document", Cause: err}
	}
	return nil
}

// RecoverEmailContent re-reads the persisted document and returns the email content
// stored for jobID. It returns nil content without error when the record has none.
func (s *Store) RecoverEmailContent(ctx context.Context, jobID string) (*types.EmailContent, error) {
	data, err := s.backend.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrNoDocument) {
			return nil, &NotFoundError{JobID: jobID}
		}
		return nil, err
	}
	return recoverEmailContent(data, jobID)
}

// TableColumns are the columns of the full store projection.
var TableColumns = []string{
	"job_id", "job_link", "employer_name", "employer_role", "email_id",
	"company_name", "job_role",
	"scrape_status", "scrape_error", "scraped_at", "role_details",
	"email_status", "email_error", "email_generated_at", "subject", "body",
	"draft_id", "drafted_at", "created_at",
}

// ToTable projects every record into a flat table for reporting and export.
func (s *Store) ToTable() *export.Table {
	t := export.NewTable("job_status", TableColumns...)
	for _, id := range s.order {
		rec := s.records[id]
		var roleDetails, subject, body string
		if rec.JobDetails != nil {
			roleDetails = string(rec.JobDetails.RoleDetails)
		}
		if rec.EmailContent != nil {
			subject = rec.EmailContent.Subject
			body = rec.EmailContent.Body
		}
		_ = t.Append(
			rec.JobID, rec.JobLink, rec.EmployerName, rec.EmployerRole, rec.EmailID,
			rec.CompanyName, rec.JobRole,
			string(rec.ScrapeStatus), rec.ScrapeError, FormatTime(rec.ScrapedAt), roleDetails,
			string(rec.EmailStatus), rec.EmailError, FormatTime(rec.EmailGeneratedAt), subject, body,
			rec.DraftID, FormatTime(rec.DraftedAt), rec.CreatedAt.Format(time.RFC3339),
		)
	}
	return t
}

// FormatTime renders an optional timestamp for tables.
func FormatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func (s *Store) reset() {
	s.records = make(map[string]*types.JobRecord)
	s.links = make(map[string]string)
	s.order = nil
}
