package mailbox

import (
	"encoding/base64"
	"fmt"
	"mime"
	"strings"
)

// BuildMessage renders a plain-text RFC 2822 message.
func BuildMessage(to, subject, body string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "To: %s\r\n", headerValue(to))
	fmt.Fprintf(&sb, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerValue(subject)))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(normalizeNewlines(body))
	return sb.String()
}

// BuildRawMessage returns the message in the base64url form the Gmail API expects.
func BuildRawMessage(to, subject, body string) string {
	return base64.URLEncoding.EncodeToString([]byte(BuildMessage(to, subject, body)))
}

// headerValue strips line breaks so a value cannot start a new header.
func headerValue(v string) string {
	v = strings.ReplaceAll(v, "\r", " ")
	v = strings.ReplaceAll(v, "\n", " ")
	return strings.TrimSpace(v)
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}
