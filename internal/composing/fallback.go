package composing

import (
	"fmt"
	"strings"

	"github.com/jonathan/job-outreach/internal/types"
)

const fallbackBody = `%s,

I hope this email finds you well. I am writing to express my strong interest in the %s position at %s. As a %s with %s, I was excited to learn about this opportunity.

I believe my background and skills make me an excellent candidate for this role, and I would welcome the opportunity to discuss how I can contribute to your team.

Thank you for considering my application. I look forward to the possibility of connecting soon.

Best regards,
%s`

// Fallback builds a generic email from the sender profile and the record alone.
// The same inputs always give the same email.
func Fallback(profile types.SenderProfile, rec *types.JobRecord) *types.EmailContent {
	company := "your company"
	jobRole := "the open position"
	if d := rec.JobDetails; d != nil {
		company = orDefault(d.CompanyName, company)
		jobRole = orDefault(d.JobRole, jobRole)
	}
	if jobRole == "the open position" && strings.TrimSpace(rec.JobRole) != "" {
		jobRole = rec.JobRole
	}

	senderRole := orDefault(profile.Role, "Professional")
	background := orDefault(profile.Background, "relevant experience")

	return &types.EmailContent{
		Subject: fmt.Sprintf("Experienced %s interested in %s position", senderRole, jobRole),
		Body:    fmt.Sprintf(fallbackBody, greeting(rec.EmployerName), jobRole, company, senderRole, background, profile.Name),
	}
}

func greeting(employer string) string {
	employer = strings.TrimSpace(employer)
	if employer == "" || strings.EqualFold(employer, "hiring manager") {
		return "Dear Hiring Manager"
	}
	return "Dear " + employer
}
