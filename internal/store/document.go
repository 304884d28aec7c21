package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jonathan/job-outreach/internal/types"
)

// encodeDocument writes records as a JSON object keyed by job id, in the given order.
// encoding/json sorts map keys, so the object is assembled by hand to keep insertion order.
func encodeDocument(order []string, records map[string]*types.JobRecord) ([]byte, error) {
	if len(order) == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, id := range order {
		key, err := json.Marshal(id)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal job id %q: %w", id, err)
		}
		value, err := json.MarshalIndent(records[id], "  ", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal job %s: %w", id, err)
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
		if i < len(order)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// decodeDocument parses a persisted document, keeping the order in which jobs appear.
func decodeDocument(data []byte) ([]string, map[string]*types.JobRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("document must be a JSON object keyed by job id")
	}

	var order []string
	records := make(map[string]*types.JobRecord)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read job id: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}

		var rec types.JobRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, nil, fmt.Errorf("failed to decode job %s: %w", key, err)
		}
		// The document key is the job id; a stale job_id field inside the
		// record must not make the record unreachable.
		rec.JobID = key
		if rec.ScrapeStatus == "" {
			rec.ScrapeStatus = types.StatusPending
		}
		if rec.EmailStatus == "" {
			rec.EmailStatus = types.StatusPending
		}

		if _, seen := records[key]; !seen {
			order = append(order, key)
		}
		records[key] = &rec
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("unterminated document: %w", err)
	}
	return order, records, nil
}

// recoverEmailContent digs a single record's email_content out of a raw document.
// The value may be an object or, in documents written by older tools, a JSON-encoded string.
func recoverEmailContent(data []byte, jobID string) (*types.EmailContent, error) {
	var doc map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	rec, ok := doc[jobID]
	if !ok {
		return nil, &NotFoundError{JobID: jobID}
	}

	raw, ok := rec["email_content"]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("failed to decode email_content string: %w", err)
		}
		raw = json.RawMessage(encoded)
	}

	var content types.EmailContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return nil, fmt.Errorf("email_content is not an object: %w", err)
	}
	return &content, nil
}
