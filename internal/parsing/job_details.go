// Package parsing extracts structured job details from retrieved page content.
package parsing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jonathan/job-outreach/internal/llm"
	"github.com/jonathan/job-outreach/internal/schemas"
	"github.com/jonathan/job-outreach/internal/types"
)

// ErrNoContent is returned when there is nothing to extract from.
var ErrNoContent = errors.New("no content to extract from")

// Extractor asks a model for the role, company and role summary of a job page.
type Extractor struct {
	Client llm.Client
	// Tier selects the model. Defaults to llm.TierStandard.
	Tier llm.ModelTier
	// MaxInput caps the content sent to the model in characters.
	// Defaults to llm.MaxExtractionInput.
	MaxInput int
}

// NewExtractor creates an extractor over client with default settings.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{Client: client, Tier: llm.TierStandard, MaxInput: llm.MaxExtractionInput}
}

// Extract returns the job details found in content.
func (e *Extractor) Extract(ctx context.Context, content string) (*types.JobDetails, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrNoContent
	}

	tier := e.Tier
	if tier == "" {
		tier = llm.TierStandard
	}
	max := e.MaxInput
	if max == 0 {
		max = llm.MaxExtractionInput
	}

	prompt := llm.BuildExtractionPrompt(llm.JobDetailsSchema(), llm.TruncateInput(content, max))
	responseText, err := e.Client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		return nil, &APICallError{Model: e.Client.GetModel(tier), Cause: err}
	}

	return ParseJobDetails(responseText)
}

// ParseJobDetails validates and decodes a model response into job details.
func ParseJobDetails(responseText string) (*types.JobDetails, error) {
	responseText = llm.CleanJSONBlock(responseText)

	if err := schemas.Validate(schemas.JobDetails, responseText); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			return nil, &ValidationError{Reason: ve.Error()}
		}
		return nil, &ParseError{Cause: err}
	}

	var details types.JobDetails
	if err := json.Unmarshal([]byte(responseText), &details); err != nil {
		return nil, &ParseError{Cause: err}
	}

	NormalizeJobDetails(&details)
	if details.JobRole == "" && details.CompanyName == "" {
		return nil, &ValidationError{Reason: "neither a role nor a company was found"}
	}
	return &details, nil
}
