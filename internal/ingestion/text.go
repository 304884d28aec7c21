package ingestion

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// DefaultResumePath is where the sender's resume text is read from.
const DefaultResumePath = "resume.txt"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	blankLineRun  = regexp.MustCompile(`\n\n\n+`)
)

// normalizeValue trims a CSV cell and collapses inner whitespace.
func normalizeValue(v string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(v), " ")
}

// CleanText normalizes free text while preserving its line structure: line
// endings become LF, trailing spaces go, runs of spaces inside a line collapse
// and at most one blank line is kept between paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := strings.Join(lines, "\n")
	result = blankLineRun.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine keeps headings and bullets intact and collapses spaces elsewhere.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return ""
	}

	indent := strings.Repeat(" ", len(line)-len(trimmed))
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}
	if isBulletLine(trimmed) {
		return indent + trimmed
	}
	return indent + whitespaceRun.ReplaceAllString(trimmed, " ")
}

func isBulletLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}

// LoadResume reads and cleans the sender's resume text. A missing file is not an
// error: generation works without it, so an empty string is returned.
func LoadResume(path string) (string, error) {
	if path == "" {
		path = DefaultResumePath
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read resume: %w", err)
	}
	return CleanText(string(content)), nil
}
