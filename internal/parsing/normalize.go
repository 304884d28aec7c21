package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/job-outreach/internal/types"
)

var spaceRun = regexp.MustCompile(`\s+`)

// placeholderValues are answers models give instead of leaving a field empty.
var placeholderValues = map[string]bool{
	"n/a":           true,
	"na":            true,
	"none":          true,
	"null":          true,
	"unknown":       true,
	"not specified": true,
	"not provided":  true,
}

// NormalizeJobDetails collapses whitespace in the single-line fields, blanks
// placeholder answers and trims the role summary.
func NormalizeJobDetails(d *types.JobDetails) {
	d.JobRole = normalizeName(d.JobRole)
	d.CompanyName = normalizeName(d.CompanyName)
	d.RoleDetails = types.FlexText(strings.TrimSpace(string(d.RoleDetails)))
}

func normalizeName(s string) string {
	s = spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	s = strings.Trim(s, `"'`)
	if placeholderValues[strings.ToLower(s)] {
		return ""
	}
	return s
}
