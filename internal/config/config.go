// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/job-outreach/internal/types"
)

// Default values used when neither the config file nor a flag sets them.
const (
	DefaultContacts          = "contacts.csv"
	DefaultStore             = "job_status.json"
	DefaultResume            = "resume.txt"
	DefaultExportDir         = "."
	DefaultExportFormat      = "xlsx"
	DefaultGenerationTimeout = 60 * time.Second
	DefaultGmailCredentials  = "credentials.json"
	DefaultGmailToken        = "token.json"
)

// GmailConfig locates the OAuth files used for draft creation.
type GmailConfig struct {
	Credentials string `json:"credentials,omitempty" yaml:"credentials,omitempty"`
	Token       string `json:"token,omitempty" yaml:"token,omitempty"`
}

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Contacts string `json:"contacts,omitempty" yaml:"contacts,omitempty"` // Contacts CSV
	Store    string `json:"store,omitempty" yaml:"store,omitempty"`       // Job status document
	Resume   string `json:"resume,omitempty" yaml:"resume,omitempty"`     // Sender resume text

	// Exports
	ExportDir    string `json:"export_dir,omitempty" yaml:"export_dir,omitempty"`
	ExportFormat string `json:"export_format,omitempty" yaml:"export_format,omitempty" validate:"omitempty,oneof=xlsx csv"`
	NoExport     bool   `json:"no_export,omitempty" yaml:"no_export,omitempty"`

	// Storage: when DatabaseURL is set the document lives in PostgreSQL instead of Store.
	DatabaseURL  string `json:"database_url,omitempty" yaml:"database_url,omitempty" validate:"omitempty,url"`
	DocumentName string `json:"document_name,omitempty" yaml:"document_name,omitempty"`

	// Generation
	APIKey            string  `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model             string  `json:"model,omitempty" yaml:"model,omitempty"`
	Temperature       float32 `json:"temperature,omitempty" yaml:"temperature,omitempty" validate:"gte=0,lte=2"`
	GenerationTimeout string  `json:"generation_timeout,omitempty" yaml:"generation_timeout,omitempty"`

	Sender types.SenderProfile `json:"sender" yaml:"sender" validate:"-"`
	Gmail  GmailConfig         `json:"gmail" yaml:"gmail"`

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty" yaml:"use_browser,omitempty"` // Use headless browser for thin pages
	Verbose    bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`         // Print detailed debug information
}

var validate = validator.New()

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Contacts:          DefaultContacts,
		Store:             DefaultStore,
		Resume:            DefaultResume,
		ExportDir:         DefaultExportDir,
		ExportFormat:      DefaultExportFormat,
		GenerationTimeout: DefaultGenerationTimeout.String(),
		Gmail: GmailConfig{
			Credentials: DefaultGmailCredentials,
			Token:       DefaultGmailToken,
		},
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv fills secrets that were not configured from the environment.
func (c *Config) ApplyEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those depend on the command.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.GenerationTimeout != "" {
		d, err := time.ParseDuration(c.GenerationTimeout)
		if err != nil {
			return fmt.Errorf("config error: invalid generation_timeout %q: %w", c.GenerationTimeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'generation_timeout' must be positive")
		}
	}
	return nil
}

// RequireSender checks the sender profile needed to write emails.
func (c *Config) RequireSender() error {
	if err := validate.Struct(c.Sender); err != nil {
		return fmt.Errorf("config error: sender name is required to generate emails (sender.name or --sender-name)")
	}
	return nil
}

// RequireAPIKey checks that a Gemini API key is available.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("config error: Gemini API key is required (api_key, --api-key or GEMINI_API_KEY)")
	}
	return nil
}

// Timeout returns the generation timeout, falling back to the default.
func (c *Config) Timeout() time.Duration {
	if d, err := time.ParseDuration(c.GenerationTimeout); err == nil && d > 0 {
		return d
	}
	return DefaultGenerationTimeout
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&result.Contacts, defaults.Contacts)
	fill(&result.Store, defaults.Store)
	fill(&result.Resume, defaults.Resume)
	fill(&result.ExportDir, defaults.ExportDir)
	fill(&result.ExportFormat, defaults.ExportFormat)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.DocumentName, defaults.DocumentName)
	fill(&result.APIKey, defaults.APIKey)
	fill(&result.Model, defaults.Model)
	fill(&result.GenerationTimeout, defaults.GenerationTimeout)
	fill(&result.Sender.Name, defaults.Sender.Name)
	fill(&result.Sender.Role, defaults.Sender.Role)
	fill(&result.Sender.Background, defaults.Sender.Background)
	fill(&result.Gmail.Credentials, defaults.Gmail.Credentials)
	fill(&result.Gmail.Token, defaults.Gmail.Token)

	if result.Temperature == 0 {
		result.Temperature = defaults.Temperature
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
