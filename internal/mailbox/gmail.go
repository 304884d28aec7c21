// Package mailbox creates email drafts in the sender's Gmail account.
package mailbox

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Me is the Gmail user id for the authenticated account.
const Me = "me"

// Gmail creates drafts through the Gmail API.
type Gmail struct {
	svc    *gmail.Service
	Logger zerolog.Logger
}

// NewGmail creates a draft creator. Callers supply authentication through opts,
// normally option.WithTokenSource or option.WithHTTPClient.
func NewGmail(ctx context.Context, log zerolog.Logger, opts ...option.ClientOption) (*Gmail, error) {
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, &Error{Message: "failed to create Gmail service", Cause: err}
	}
	return &Gmail{svc: svc, Logger: log}, nil
}

// NewGmailFromFiles creates a draft creator from an OAuth client secrets file
// and a token saved by the gmail-auth command. Refreshed tokens are written back.
func NewGmailFromFiles(ctx context.Context, credentialsPath, tokenPath string, log zerolog.Logger) (*Gmail, error) {
	cfg, err := LoadOAuthConfig(credentialsPath)
	if err != nil {
		return nil, err
	}
	tok, err := LoadToken(tokenPath)
	if err != nil {
		return nil, err
	}
	ts := &savingTokenSource{
		base: cfg.TokenSource(ctx, tok),
		path: tokenPath,
		last: tok.AccessToken,
		log:  log,
	}
	return NewGmail(ctx, log, option.WithTokenSource(ts))
}

// CreateDraft stores a draft addressed to `to` and returns its id.
func (g *Gmail) CreateDraft(ctx context.Context, to, subject, body string) (string, error) {
	if !strings.Contains(to, "@") {
		return "", &Error{Message: "invalid recipient address " + to}
	}

	draft := &gmail.Draft{Message: &gmail.Message{Raw: BuildRawMessage(to, subject, body)}}
	created, err := g.svc.Users.Drafts.Create(Me, draft).Context(ctx).Do()
	if err != nil {
		return "", &Error{Message: "failed to create draft", Cause: err}
	}
	if created == nil || strings.TrimSpace(created.Id) == "" {
		return "", &Error{Message: "draft created without an id"}
	}

	g.Logger.Debug().Str("draft_id", created.Id).Str("to", to).Msg("created Gmail draft")
	return created.Id, nil
}
