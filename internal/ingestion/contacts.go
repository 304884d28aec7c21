// Package ingestion turns an external contact list into tracked job records.
package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/job-outreach/internal/types"
)

// DefaultContactsPath is where the contact list is read from when no path is given.
const DefaultContactsPath = "contacts.csv"

// RequiredColumns must all be present in the contact list header.
var RequiredColumns = []string{"employer_name", "employer_role", "email_id", "job_link"}

// ValidationError is returned when the contact list is missing required columns.
// It is raised before any row is processed.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("contacts missing required columns: %s", strings.Join(e.Missing, ", "))
}

// LoadContacts reads a contact list CSV file.
func LoadContacts(path string) ([]types.Contact, error) {
	if path == "" {
		path = DefaultContactsPath
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("contacts file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to open contacts file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadContacts(f)
}

// ReadContacts parses a contact list with a header row. Column names are matched
// case-insensitively, extra columns are ignored and values are trimmed.
func ReadContacts(r io.Reader) ([]types.Contact, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ValidationError{Missing: append([]string(nil), RequiredColumns...)}
		}
		return nil, fmt.Errorf("failed to read contacts header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	field := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return normalizeValue(row[i])
	}

	var contacts []types.Contact
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read contacts line %d: %w", line, err)
		}
		if isBlankRow(row) {
			continue
		}
		contacts = append(contacts, types.Contact{
			EmployerName: field(row, "employer_name"),
			EmployerRole: field(row, "employer_role"),
			EmailID:      field(row, "email_id"),
			JobLink:      field(row, "job_link"),
		})
	}
	return contacts, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
