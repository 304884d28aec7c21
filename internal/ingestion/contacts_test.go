package ingestion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-outreach/internal/types"
)

func TestReadContacts(t *testing.T) {
	input := "employer_name,employer_role,email_id,job_link,notes\n" +
		"  Ada  Lovelace , CTO ,ada@example.com,https://jobs/a,ignored\n" +
		"\n" +
		"Grace,Recruiter,grace@example.com,https://jobs/b\n"

	contacts, err := ReadContacts(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []types.Contact{
		{EmployerName: "Ada Lovelace", EmployerRole: "CTO", EmailID: "ada@example.com", JobLink: "https://jobs/a"},
		{EmployerName: "Grace", EmployerRole: "Recruiter", EmailID: "grace@example.com", JobLink: "https://jobs/b"},
	}, contacts)
}

func TestReadContacts_HeaderCaseAndBOM(t *testing.T) {
	input := "\ufeffJob_Link,Email_ID,Employer_Name,Employer_Role\nhttps://jobs/a,a@example.com,Ada,CTO\n"

	contacts, err := ReadContacts(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "https://jobs/a", contacts[0].JobLink)
	assert.Equal(t, "Ada", contacts[0].EmployerName)
}

func TestReadContacts_ShortRow(t *testing.T) {
	input := "employer_name,employer_role,email_id,job_link\nAda,CTO\n"

	contacts, err := ReadContacts(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Empty(t, contacts[0].JobLink)
}

func TestReadContacts_MissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		missing []string
	}{
		{"one missing", "employer_name,employer_role,job_link\nA,B,C\n", []string{"email_id"}},
		{"several missing", "employer_name\nA\n", []string{"employer_role", "email_id", "job_link"}},
		{"empty input", "", RequiredColumns},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contacts, err := ReadContacts(strings.NewReader(tt.input))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.missing, ve.Missing)
			assert.Nil(t, contacts)
		})
	}
}

func TestLoadContacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.csv")
	require.NoError(t, os.WriteFile(path, []byte("employer_name,employer_role,email_id,job_link\nA,B,a@x.io,https://jobs/a\n"), 0644))

	contacts, err := LoadContacts(path)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)

	_, err = LoadContacts(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorContains(t, err, "contacts file not found")
}
