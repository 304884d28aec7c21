// Package pipeline advances job records through the scrape, generate and draft
// stages and drives complete runs.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jonathan/job-outreach/internal/export"
	"github.com/jonathan/job-outreach/internal/ingestion"
	"github.com/jonathan/job-outreach/internal/observability"
	"github.com/jonathan/job-outreach/internal/pipeline/steps"
	"github.com/jonathan/job-outreach/internal/reporting"
	"github.com/jonathan/job-outreach/internal/store"
	"github.com/jonathan/job-outreach/internal/types"
)

// Export file names, without extension.
const (
	ExportScraped   = "job_details_scraped"
	ExportGenerated = "generated_emails"
	ExportDrafts    = "gmail_drafts_report"
	ExportTracking  = "job_tracking_report"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	// Stages to run, in any order. Empty runs every stage.
	Stages []string
	// Contacts are ingested by the ingest stage.
	Contacts []types.Contact

	Retriever Retriever
	Extractor Extractor
	Composer  Composer
	Creator   DraftCreator

	ExportDir    string
	ExportFormat export.Format
	NoExport     bool

	Verbose    bool
	Out        io.Writer // progress lines and the report; defaults to stdout
	Loggers    func(component string) zerolog.Logger
	Clock      Clock
	NewID      func() string
	OnProgress ProgressCallback
}

// RunResult holds the outputs of every stage that ran.
type RunResult struct {
	Ingest   *ingestion.Result
	Scrape   *ScrapeResult
	Generate *GenerateResult
	Draft    *DraftResult
	Report   *reporting.Report
	Exports  []string
}

type runner struct {
	opts    RunOptions
	plan    *steps.Plan
	out     io.Writer
	printer *observability.Printer
	store   *store.Store
	result  *RunResult
}

// Run executes the selected stages against s in order. A scrape abort ends the
// run with the scrape error; the partial result is returned alongside it.
func Run(ctx context.Context, s *store.Store, opts RunOptions) (*RunResult, error) {
	plan, err := steps.NewPlan(opts.Stages...)
	if err != nil {
		return nil, err
	}
	if err := checkCollaborators(plan, opts); err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Loggers == nil {
		opts.Loggers = func(string) zerolog.Logger { return zerolog.Nop() }
	}
	if opts.ExportFormat == "" {
		opts.ExportFormat = export.FormatXLSX
	}

	r := &runner{
		opts:    opts,
		plan:    plan,
		out:     out,
		printer: observability.NewPrinter(out),
		store:   s,
		result:  &RunResult{},
	}

	for _, stage := range plan.Stages() {
		var err error
		switch stage {
		case steps.Ingest:
			err = r.ingest(ctx)
		case steps.Scrape:
			err = r.scrape(ctx)
		case steps.Generate:
			err = r.generate(ctx)
		case steps.Draft:
			err = r.draft(ctx)
		case steps.Report:
			r.report()
		}
		if err != nil {
			return r.result, err
		}
	}
	return r.result, nil
}

func checkCollaborators(plan *steps.Plan, opts RunOptions) error {
	switch {
	case plan.Includes(steps.Scrape) && (opts.Retriever == nil || opts.Extractor == nil):
		return fmt.Errorf("scrape stage needs a retriever and an extractor")
	case plan.Includes(steps.Generate) && opts.Composer == nil:
		return fmt.Errorf("generate stage needs a composer")
	case plan.Includes(steps.Draft) && opts.Creator == nil:
		return fmt.Errorf("draft stage needs a draft creator")
	}
	return nil
}

//nolint:errcheck // progress output; errors are not recoverable
func (r *runner) step(stage, format string, args ...any) {
	pos, total := r.plan.Position(stage)
	fmt.Fprintf(r.out, "Step %d/%d: %s\n", pos, total, fmt.Sprintf(format, args...))
}

func (r *runner) emit(stage, message string, content any) {
	if r.opts.OnProgress == nil {
		return
	}
	r.opts.OnProgress(ProgressEvent{
		Step:     stage,
		Category: steps.StepRegistry[stage].Category,
		Message:  message,
		Content:  content,
	})
}

func (r *runner) export(t *export.Table, base string) {
	if r.opts.NoExport {
		return
	}
	path, err := export.Write(t, r.opts.ExportDir, base, r.opts.ExportFormat)
	if err != nil {
		// Exports are write-only artifacts; the store already holds the state.
		log := r.opts.Loggers("export")
		log.Warn().Err(err).Str("file", base).Msg("failed to write export")
		return
	}
	r.result.Exports = append(r.result.Exports, path)
}

func (r *runner) summary(stage string, sum Summary) {
	if r.opts.Verbose {
		r.printer.PrintStageSummary(stage, sum.Attempted, sum.Succeeded, sum.Failed, sum.Skipped)
	}
	r.emit(stage, fmt.Sprintf("%s finished: %s", stage, sum), sum)
}

func (r *runner) ingest(ctx context.Context) error {
	r.step(steps.Ingest, "Ingesting %d contacts...", len(r.opts.Contacts))
	res, err := ingestion.Ingest(ctx, r.store, r.opts.Contacts, ingestion.Options{
		Logger: r.opts.Loggers(steps.Ingest),
		NewID:  r.opts.NewID,
		Now:    r.opts.Clock,
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	r.result.Ingest = res
	r.emit(steps.Ingest, fmt.Sprintf("Added %d jobs, skipped %d", res.Added, res.Skipped), res)
	return nil
}

func (r *runner) scrape(ctx context.Context) error {
	r.step(steps.Scrape, "Scraping pending job links...")
	res, err := Scrape(ctx, r.store, ScrapeOptions{
		Retriever: r.opts.Retriever,
		Extractor: r.opts.Extractor,
		Logger:    r.opts.Loggers(steps.Scrape),
		Clock:     r.opts.Clock,
	})
	r.result.Scrape = res
	r.export(res.Table, ExportScraped)

	if r.opts.Verbose {
		for _, id := range res.Table.Column("job_id") {
			if rec, getErr := r.store.Get(id); getErr == nil {
				r.printer.PrintJobDetails(rec)
			}
		}
	}
	r.summary(steps.Scrape, res.Summary)
	if err != nil {
		return fmt.Errorf("scraping aborted: %w", err)
	}
	return nil
}

func (r *runner) generate(ctx context.Context) error {
	var ids []string
	if r.plan.ChainedInput(steps.Generate) && r.result.Scrape != nil {
		ids = r.result.Scrape.Table.Column("job_id")
	} else {
		ids = PendingGeneration(r.store)
	}

	r.step(steps.Generate, "Generating emails for %d jobs...", len(ids))
	res, err := Generate(ctx, r.store, ids, GenerateOptions{
		Composer: r.opts.Composer,
		Logger:   r.opts.Loggers(steps.Generate),
		Clock:    r.opts.Clock,
	})
	r.result.Generate = res
	r.export(res.Table, ExportGenerated)

	if r.opts.Verbose {
		fallbacks := res.Table.Column("fallback")
		for i, id := range res.Table.Column("job_id") {
			if rec, getErr := r.store.Get(id); getErr == nil {
				fallback, _ := strconv.ParseBool(fallbacks[i])
				r.printer.PrintEmail(rec, fallback)
			}
		}
	}
	r.summary(steps.Generate, res.Summary)
	return err
}

func (r *runner) draft(ctx context.Context) error {
	var ids []string
	if r.plan.ChainedInput(steps.Draft) && r.result.Generate != nil {
		ids = r.result.Generate.Table.Column("job_id")
	} else {
		ids = PendingDrafts(r.store)
	}

	r.step(steps.Draft, "Creating drafts for %d emails...", len(ids))
	res, err := Draft(ctx, r.store, ids, DraftOptions{
		Creator: r.opts.Creator,
		Logger:  r.opts.Loggers(steps.Draft),
		Clock:   r.opts.Clock,
	})
	r.result.Draft = res
	r.export(res.Table, ExportDrafts)
	r.summary(steps.Draft, res.Summary)
	return err
}

//nolint:errcheck // report output; errors are not recoverable
func (r *runner) report() {
	r.step(steps.Report, "Building status report...")
	rep := reporting.Build(r.store.List())
	r.result.Report = rep
	r.export(r.store.ToTable(), ExportTracking)

	if r.opts.Verbose {
		r.printer.PrintReport(rep)
	}
	fmt.Fprintln(r.out, rep.Markdown())
	r.emit(steps.Report, fmt.Sprintf("%d jobs tracked", rep.Total), rep)
}
