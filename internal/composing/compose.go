// Package composing generates personalised cold emails for scraped jobs.
package composing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/job-outreach/internal/llm"
	"github.com/jonathan/job-outreach/internal/prompts"
	"github.com/jonathan/job-outreach/internal/schemas"
	"github.com/jonathan/job-outreach/internal/types"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 60 * time.Second

const (
	promptFile = "outreach.json"
	promptKey  = "cold-email"
)

// Generator produces raw model output for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of composing one email. Cause is set when the
// generated output could not be used and Email holds the fallback.
type Result struct {
	Email    *types.EmailContent
	Fallback bool
	Cause    error
}

// Composer writes emails on behalf of a fixed sender.
type Composer struct {
	Profile   types.SenderProfile
	Generator Generator
	Timeout   time.Duration
	Logger    zerolog.Logger
}

// NewComposer creates a composer backed by an LLM client at the standard tier.
func NewComposer(profile types.SenderProfile, client llm.Client, log zerolog.Logger) *Composer {
	return &Composer{
		Profile:   profile,
		Generator: &llm.TierGenerator{Client: client, Tier: llm.TierStandard, JSON: true},
		Timeout:   DefaultTimeout,
		Logger:    log,
	}
}

// Compose generates an email for rec. It never fails: when the generator errors,
// times out or returns unusable output the deterministic fallback is returned.
func (c *Composer) Compose(ctx context.Context, rec *types.JobRecord) *Result {
	log := c.Logger.With().Str("job_id", rec.JobID).Logger()

	if c.Generator == nil {
		return c.fallback(rec, fmt.Errorf("no generator configured"), log)
	}

	prompt, err := c.BuildPrompt(rec)
	if err != nil {
		return c.fallback(rec, err, log)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := c.Generator.Generate(callCtx, prompt)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("generation timed out after %s: %w", timeout, err)
		}
		return c.fallback(rec, err, log)
	}

	email, err := ParseEmail(raw)
	if err != nil {
		return c.fallback(rec, err, log)
	}

	log.Debug().Str("subject", email.Subject).Msg("generated email")
	return &Result{Email: email}
}

func (c *Composer) fallback(rec *types.JobRecord, cause error, log zerolog.Logger) *Result {
	log.Warn().Err(cause).Msg("email generation failed, using fallback template")
	return &Result{Email: Fallback(c.Profile, rec), Fallback: true, Cause: cause}
}

// BuildPrompt renders the cold-email prompt for rec.
func (c *Composer) BuildPrompt(rec *types.JobRecord) (string, error) {
	template, err := prompts.Get(promptFile, promptKey)
	if err != nil {
		return "", err
	}

	var company, role, details string
	if rec.JobDetails != nil {
		company = rec.JobDetails.CompanyName
		role = rec.JobDetails.JobRole
		details = string(rec.JobDetails.RoleDetails)
	}

	return prompts.Format(template, map[string]string{
		"SenderName":       c.Profile.Name,
		"SenderRole":       orDefault(c.Profile.Role, "Professional"),
		"SenderBackground": orDefault(c.Profile.Background, "relevant experience"),
		"Resume":           orDefault(c.Profile.ResumeText, "No detailed resume provided"),
		"CompanyName":      orDefault(company, "the company"),
		"JobRole":          orDefault(role, "the position"),
		"EmployerName":     orDefault(rec.EmployerName, "Hiring Manager"),
		"EmployerRole":     orDefault(rec.EmployerRole, "Hiring Manager"),
		"RoleDetails":      orDefault(details, "No specific requirements provided"),
	}), nil
}

// ParseEmail decodes model output into an email. The output must be a JSON
// object with exactly a non-blank subject and body.
func ParseEmail(raw string) (*types.EmailContent, error) {
	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schemas.EmailContent, cleaned); err != nil {
		return nil, err
	}

	var email types.EmailContent
	if err := json.Unmarshal([]byte(cleaned), &email); err != nil {
		return nil, fmt.Errorf("failed to decode email: %w", err)
	}
	email.Subject = strings.TrimSpace(email.Subject)
	email.Body = strings.TrimSpace(email.Body)
	return &email, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
