// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/job-outreach/internal/reporting"
	"github.com/jonathan/job-outreach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxBodyLines is how much of an email body is shown
	maxBodyLines = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads a line to the box's inner width, counting runes.
func pad(line string) string {
	width := boxWidth - 4
	if utf8.RuneCountInString(line) > width {
		runes := []rune(line)
		return string(runes[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-utf8.RuneCountInString(line))
}

// PrintJobDetails outputs the extracted details of a scraped job.
func (p *Printer) PrintJobDetails(rec *types.JobRecord) {
	if rec == nil || rec.JobDetails == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Job:      %s\n", rec.JobID)
	fmt.Fprintf(&sb, "Company:  %s\n", rec.JobDetails.CompanyName)
	fmt.Fprintf(&sb, "Role:     %s\n", rec.JobDetails.JobRole)
	fmt.Fprintf(&sb, "Contact:  %s (%s)\n", rec.EmployerName, rec.EmailID)
	if details := strings.TrimSpace(string(rec.JobDetails.RoleDetails)); details != "" {
		sb.WriteString("\n")
		sb.WriteString(firstLines(details, 3))
	}

	p.printBox("SCRAPED JOB", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEmail outputs a generated email. fallback marks template output.
func (p *Printer) PrintEmail(rec *types.JobRecord, fallback bool) {
	if rec == nil || rec.EmailContent == nil {
		return
	}

	title := "GENERATED EMAIL"
	if fallback {
		title += " (fallback)"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "To:       %s\n", rec.EmailID)
	fmt.Fprintf(&sb, "Subject:  %s\n\n", rec.EmailContent.Subject)
	sb.WriteString(firstLines(rec.EmailContent.Body, maxBodyLines))

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStageSummary outputs the outcome counts of one stage.
func (p *Printer) PrintStageSummary(stage string, attempted, succeeded, failed, skipped int) {
	content := fmt.Sprintf("Attempted:  %d\nSucceeded:  %d\nFailed:     %d\nSkipped:    %d",
		attempted, succeeded, failed, skipped)
	p.printBox(strings.ToUpper(stage)+" SUMMARY", content)
}

// PrintReport outputs the status report.
func (p *Printer) PrintReport(r *reporting.Report) {
	if r == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Total jobs:  %d\n\n", r.Total)
	sb.WriteString("Scrape   ")
	for _, st := range types.Statuses {
		fmt.Fprintf(&sb, " %s=%d", st, r.Scrape[st])
	}
	sb.WriteString("\nEmail    ")
	for _, st := range types.Statuses {
		fmt.Fprintf(&sb, " %s=%d", st, r.Email[st])
	}
	fmt.Fprintf(&sb, "\nDrafted   %d\n", r.Drafted)

	var pairs []string
	for _, c := range r.Combinations {
		if c.Count > 0 {
			pairs = append(pairs, fmt.Sprintf("  %-8s / %-8s %4d  %5.1f%%", c.ScrapeStatus, c.EmailStatus, c.Count, c.Percent))
		}
	}
	if len(pairs) > 0 {
		sb.WriteString("\nScrape / Email:\n")
		sb.WriteString(strings.Join(pairs, "\n"))
	}

	p.printBox("JOB STATUS REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

func firstLines(text string, n int) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n") + "\n"
	}
	return strings.Join(lines[:n], "\n") + fmt.Sprintf("\n... and %d more lines\n", len(lines)-n)
}
