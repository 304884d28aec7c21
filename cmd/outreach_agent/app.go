package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jonathan/job-outreach/internal/composing"
	"github.com/jonathan/job-outreach/internal/config"
	"github.com/jonathan/job-outreach/internal/db"
	"github.com/jonathan/job-outreach/internal/export"
	"github.com/jonathan/job-outreach/internal/fetch"
	"github.com/jonathan/job-outreach/internal/ingestion"
	"github.com/jonathan/job-outreach/internal/llm"
	"github.com/jonathan/job-outreach/internal/logger"
	"github.com/jonathan/job-outreach/internal/mailbox"
	"github.com/jonathan/job-outreach/internal/parsing"
	"github.com/jonathan/job-outreach/internal/pipeline"
	"github.com/jonathan/job-outreach/internal/pipeline/steps"
	"github.com/jonathan/job-outreach/internal/store"
)

// app holds the resources shared by one command invocation.
type app struct {
	cfg     *config.Config
	loggers logger.Factory
	store   *store.Store
	closers []func()
}

// newApp opens the job status document, from PostgreSQL when a database URL
// is configured and from the local file otherwise.
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{
		cfg:     cfg,
		loggers: logger.Factory{Config: logger.FromEnv(cfg.Verbose)},
	}

	var backend store.Backend
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, database.Close)
		if err := database.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
		backend = database.Documents(cfg.DocumentName)
	} else {
		backend = store.NewFileBackend(cfg.Store)
	}

	s, err := store.Open(ctx, backend, a.loggers.For("store"))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open job store: %w", err)
	}
	a.store = s
	return a, nil
}

// Close releases everything the app opened, newest first.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// runOptions builds the pipeline options for plan, creating only the
// collaborators its stages need.
func (a *app) runOptions(ctx context.Context, plan *steps.Plan) (pipeline.RunOptions, error) {
	cfg := a.cfg
	format, err := export.ParseFormat(cfg.ExportFormat)
	if err != nil {
		return pipeline.RunOptions{}, err
	}

	opts := pipeline.RunOptions{
		Stages:       plan.Stages(),
		ExportDir:    cfg.ExportDir,
		ExportFormat: format,
		NoExport:     cfg.NoExport,
		Verbose:      cfg.Verbose,
		Loggers:      a.loggers.For,
	}

	if plan.Includes(steps.Ingest) {
		contacts, err := ingestion.LoadContacts(cfg.Contacts)
		if err != nil {
			return opts, err
		}
		opts.Contacts = contacts
	}

	if plan.Includes(steps.Scrape) || plan.Includes(steps.Generate) {
		if plan.Includes(steps.Generate) {
			if err := cfg.RequireSender(); err != nil {
				return opts, err
			}
		}
		client, err := a.llmClient(ctx)
		if err != nil {
			return opts, err
		}

		if plan.Includes(steps.Scrape) {
			opts.Retriever = fetch.NewRetriever(cfg.UseBrowser, a.loggers.For("fetch"))
			opts.Extractor = parsing.NewExtractor(client)
		}
		if plan.Includes(steps.Generate) {
			composer, err := a.composer(client)
			if err != nil {
				return opts, err
			}
			opts.Composer = composer
		}
	}

	if plan.Includes(steps.Draft) {
		creator, err := mailbox.NewGmailFromFiles(ctx, cfg.Gmail.Credentials, cfg.Gmail.Token, a.loggers.For("gmail"))
		if err != nil {
			return opts, err
		}
		opts.Creator = creator
	}
	return opts, nil
}

func (a *app) llmClient(ctx context.Context) (llm.Client, error) {
	if err := a.cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	client, err := llm.NewClient(ctx, llmConfig(a.cfg), a.cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })
	return client, nil
}

// llmConfig applies the configured model and temperature to the default tiers.
func llmConfig(cfg *config.Config) *llm.Config {
	c := llm.DefaultConfig()
	if cfg.Model != "" {
		for _, tier := range []llm.ModelTier{llm.TierLite, llm.TierStandard, llm.TierAdvanced} {
			c = c.WithModel(tier, cfg.Model)
		}
	}
	if cfg.Temperature > 0 {
		c = c.WithTemperature(cfg.Temperature)
	}
	return c
}

func (a *app) composer(client llm.Client) (*composing.Composer, error) {
	resume, err := ingestion.LoadResume(a.cfg.Resume)
	if err != nil {
		return nil, err
	}
	log := a.loggers.For("compose")
	if resume == "" {
		log.Warn().Str("path", a.cfg.Resume).Msg("no resume text found, emails will not reference it")
	}

	profile := a.cfg.Sender
	profile.ResumeText = resume
	c := composing.NewComposer(profile, client, log)
	c.Timeout = a.cfg.Timeout()
	return c, nil
}

// runStages executes the named stages, or every stage when none are given.
func runStages(ctx context.Context, cfg *config.Config, out io.Writer, stages ...string) (*pipeline.RunResult, error) {
	plan, err := steps.NewPlan(stages...)
	if err != nil {
		return nil, err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	opts, err := a.runOptions(ctx, plan)
	if err != nil {
		return nil, err
	}
	opts.Out = out
	return pipeline.Run(ctx, a.store, opts)
}
