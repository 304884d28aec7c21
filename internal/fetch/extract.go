package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// boilerplate is removed from every page before the posting is located.
const boilerplate = "nav, footer, header, script, style, noscript, iframe, svg, " +
	".ad, .advertisement, .ads, .sidebar, .popup"

// genericSelectors locate a posting on an unrecognized site, most specific first.
var genericSelectors = []string{
	".job-description", ".job-content", "#job-description", "#job-content",
	".posting-content", ".job-details", "[data-testid='job-description']",
	"main", "article", ".content", "#content",
}

// JobPostingSelectors returns the selectors used for sites without platform rules.
func JobPostingSelectors() []string {
	return append([]string(nil), genericSelectors...)
}

// Section is the part of a page holding the posting.
type Section struct {
	// HTML is the markup of the selected element.
	HTML string
	// Text is its visible text, one non-empty line per line.
	Text string
}

// SelectContent parses html, strips boilerplate and noise, and returns the first
// element matching contentSelectors. The body is used when none match.
func SelectContent(html string, contentSelectors, noiseSelectors []string) (*Section, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(boilerplate).Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	sel := doc.Find("body")
	for _, s := range contentSelectors {
		if match := doc.Find(s); match.Length() > 0 {
			sel = match.First()
			break
		}
	}

	markup, err := sel.Html()
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}
	return &Section{HTML: markup, Text: visibleLines(sel.Text())}, nil
}

func visibleLines(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
