package fetch

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

var (
	imageOnlyLine = regexp.MustCompile(`^!\[[^\]]*\]\([^)]+\)$`)
	blankLines    = regexp.MustCompile(`\n{3,}`)
)

// ToMarkdown converts an HTML fragment to markdown, dropping image-only lines
// and repeated blank lines.
func ToMarkdown(html string) (string, error) {
	conv := md.NewConverter("", true, nil)
	out, err := conv.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	lines := strings.Split(out, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if imageOnlyLine.MatchString(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}

	out = blankLines.ReplaceAllString(strings.Join(kept, "\n"), "\n\n")
	return strings.TrimSpace(out), nil
}
