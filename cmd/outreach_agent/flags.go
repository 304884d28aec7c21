package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-outreach/internal/config"
)

// Flags shared by every command. They override values from --config.
var (
	configPath string

	contactsPath string
	storePath    string
	resumePath   string
	databaseURL  string
	documentName string

	exportDir    string
	exportFormat string
	noExport     bool

	apiKey            string
	model             string
	generationTimeout string
	senderName        string
	senderRole        string
	senderBackground  string

	gmailCredentials string
	gmailToken       string

	useBrowser bool
	verbose    bool
)

func init() {
	pf := rootCmd.PersistentFlags()

	// Config file flag (processed first)
	pf.StringVar(&configPath, "config", "", "Path to a JSON or YAML config file (values can be overridden by other flags)")

	pf.StringVar(&contactsPath, "contacts", "", "Contacts CSV (default "+config.DefaultContacts+")")
	pf.StringVar(&storePath, "store", "", "Job status document (default "+config.DefaultStore+")")
	pf.StringVar(&resumePath, "resume", "", "Sender resume text (default "+config.DefaultResume+")")
	pf.StringVar(&databaseURL, "db-url", "", "PostgreSQL URL; stores the document in the database instead of --store (defaults to DATABASE_URL env var)")
	pf.StringVar(&documentName, "document", "", "Document name when using --db-url")

	pf.StringVar(&exportDir, "export-dir", "", "Directory for spreadsheet exports")
	pf.StringVar(&exportFormat, "format", "", "Export format: xlsx or csv")
	pf.BoolVar(&noExport, "no-export", false, "Skip spreadsheet exports")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	pf.StringVar(&apiKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	pf.StringVar(&model, "model", "", "Gemini model for every tier")
	pf.StringVar(&generationTimeout, "timeout", "", "Time limit for one email generation, e.g. 60s")
	pf.StringVar(&senderName, "sender-name", "", "Name that signs the emails")
	pf.StringVar(&senderRole, "sender-role", "", "Sender's professional role")
	pf.StringVar(&senderBackground, "sender-background", "", "One line about the sender's experience")

	pf.StringVar(&gmailCredentials, "credentials", "", "Gmail OAuth client credentials file")
	pf.StringVar(&gmailToken, "token", "", "Gmail OAuth token file")

	pf.BoolVar(&useBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

// resolveConfig loads --config, applies explicitly set flags, the environment
// and defaults, then validates the result.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	applyFlags(&cfg, cmd.Flags().Changed)
	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyFlags copies every flag for which changed reports true into cfg.
func applyFlags(cfg *config.Config, changed func(name string) bool) {
	overrides := []struct {
		flag string
		src  string
		dst  *string
	}{
		{"contacts", contactsPath, &cfg.Contacts},
		{"store", storePath, &cfg.Store},
		{"resume", resumePath, &cfg.Resume},
		{"db-url", databaseURL, &cfg.DatabaseURL},
		{"document", documentName, &cfg.DocumentName},
		{"export-dir", exportDir, &cfg.ExportDir},
		{"format", exportFormat, &cfg.ExportFormat},
		{"api-key", apiKey, &cfg.APIKey},
		{"model", model, &cfg.Model},
		{"timeout", generationTimeout, &cfg.GenerationTimeout},
		{"sender-name", senderName, &cfg.Sender.Name},
		{"sender-role", senderRole, &cfg.Sender.Role},
		{"sender-background", senderBackground, &cfg.Sender.Background},
		{"credentials", gmailCredentials, &cfg.Gmail.Credentials},
		{"token", gmailToken, &cfg.Gmail.Token},
	}
	for _, f := range overrides {
		if changed(f.flag) {
			*f.dst = f.src
		}
	}

	if changed("no-export") {
		cfg.NoExport = noExport
	}
	if changed("use-browser") {
		cfg.UseBrowser = useBrowser
	}
	if changed("verbose") {
		cfg.Verbose = verbose
	}
}
