package types

// Contact is one row of the contacts list: a person to reach out to about a job link.
type Contact struct {
	EmployerName string `json:"employer_name"`
	EmployerRole string `json:"employer_role"`
	EmailID      string `json:"email_id"`
	JobLink      string `json:"job_link"`
}

// SenderProfile describes the person sending outreach emails.
type SenderProfile struct {
	Name       string `json:"name" yaml:"name" validate:"required"`
	Role       string `json:"role,omitempty" yaml:"role,omitempty"`
	Background string `json:"background,omitempty" yaml:"background,omitempty"`
	ResumeText string `json:"-" yaml:"-"`
}
