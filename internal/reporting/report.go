// Package reporting summarises job record statuses.
package reporting

import (
	"fmt"
	"strings"

	"github.com/jonathan/job-outreach/internal/types"
)

// Combination is the number of records in one (scrape, email) status pair.
type Combination struct {
	ScrapeStatus types.Status `json:"scrape_status"`
	EmailStatus  types.Status `json:"email_status"`
	Count        int          `json:"count"`
	Percent      float64      `json:"percent"`
}

// Report holds status counts for a store snapshot.
type Report struct {
	Total   int                  `json:"total"`
	Scrape  map[types.Status]int `json:"scrape"`
	Email   map[types.Status]int `json:"email"`
	Drafted int                  `json:"drafted"`
	// Combinations lists every status pair in status order, including empty ones.
	Combinations []Combination `json:"combinations"`
}

// Build counts records. It reads the records and never modifies them.
func Build(records []*types.JobRecord) *Report {
	r := &Report{
		Total:  len(records),
		Scrape: make(map[types.Status]int, len(types.Statuses)),
		Email:  make(map[types.Status]int, len(types.Statuses)),
	}
	for _, st := range types.Statuses {
		r.Scrape[st] = 0
		r.Email[st] = 0
	}

	pairs := make(map[[2]types.Status]int)
	for _, rec := range records {
		r.Scrape[rec.ScrapeStatus]++
		r.Email[rec.EmailStatus]++
		pairs[[2]types.Status{rec.ScrapeStatus, rec.EmailStatus}]++
		if rec.HasDraft() {
			r.Drafted++
		}
	}

	for _, ss := range types.Statuses {
		for _, es := range types.Statuses {
			n := pairs[[2]types.Status{ss, es}]
			r.Combinations = append(r.Combinations, Combination{
				ScrapeStatus: ss, EmailStatus: es, Count: n, Percent: Percent(n, r.Total),
			})
		}
	}
	return r
}

// Percent returns n as a percentage of total, or 0 when total is 0.
func Percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// Markdown renders the statistics and the non-empty status combinations.
func (r *Report) Markdown() string {
	var sb strings.Builder
	sb.WriteString("## Job Application Statistics\n\n")
	sb.WriteString("| Metric | Count | Percentage |\n")
	sb.WriteString("|--------|-------|------------|\n")

	row := func(name string, n int) {
		fmt.Fprintf(&sb, "| %s | %d | %.1f%% |\n", name, n, Percent(n, r.Total))
	}
	fmt.Fprintf(&sb, "| Total Jobs | %d | %s |\n", r.Total, totalPercent(r.Total))
	row("Scraped Successfully", r.Scrape[types.StatusSuccess])
	row("Failed Scrapes", r.Scrape[types.StatusFailed])
	row("Pending Scrapes", r.Scrape[types.StatusPending])
	row("Generated Emails", r.Email[types.StatusSuccess])
	row("Failed Emails", r.Email[types.StatusFailed])
	row("Pending Emails", r.Email[types.StatusPending])
	row("Drafts Created", r.Drafted)

	sb.WriteString("\n### By Status\n\n")
	sb.WriteString("| Scrape | Email | Count | Percentage |\n")
	sb.WriteString("|--------|-------|-------|------------|\n")
	for _, c := range r.Combinations {
		if c.Count == 0 {
			continue
		}
		fmt.Fprintf(&sb, "| %s | %s | %d | %.1f%% |\n", c.ScrapeStatus, c.EmailStatus, c.Count, c.Percent)
	}
	return sb.String()
}

func totalPercent(total int) string {
	if total == 0 {
		return "0%"
	}
	return "100%"
}
