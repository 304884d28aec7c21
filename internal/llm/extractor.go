package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/job-outreach/internal/prompts"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "JobDetails")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\nReturn ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		fmt.Fprintf(&sb, "  %q: %s", field.Name, typeHint)
		if field.Required {
			sb.WriteString(" (required)")
		}
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Use only information present in the text; leave a field empty rather than guessing.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// MaxExtractionInput caps how much page content is sent for extraction.
const MaxExtractionInput = 10000

// JobDetailsSchema returns the extraction schema for a job page: the role title,
// the hiring company and a summary of the role.
func JobDetailsSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobDetails",
		Description: prompts.MustGet("outreach.json", "extract-job-details"),
		Fields: []SchemaField{
			{
				Name:        "job_role",
				Type:        "\"string\"",
				Description: "Full title of the position",
				Required:    true,
			},
			{
				Name:        "company_name",
				Type:        "\"string\"",
				Description: "Name of the hiring company",
				Required:    true,
			},
			{
				Name:        "role_details",
				Type:        "\"string\"",
				Description: "Summary of skills, qualifications, responsibilities and notable requirements",
				Required:    true,
			},
		},
	}
}

// TruncateInput shortens text to at most max runes.
func TruncateInput(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
