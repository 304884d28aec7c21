package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

// Default credential file locations.
const (
	DefaultCredentialsPath = "credentials.json"
	DefaultTokenPath       = "token.json"
)

// Scopes grants draft creation without read or send access.
var Scopes = []string{gmail.GmailComposeScope}

// LoadOAuthConfig reads an installed-app client secrets file downloaded from the
// Google Cloud console.
func LoadOAuthConfig(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Message: "failed to read credentials file " + path, Cause: err}
	}
	cfg, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, &Error{Message: "invalid credentials file " + path, Cause: err}
	}
	return cfg, nil
}

// AuthCodeURL returns the consent page URL. Offline access is requested so the
// saved token carries a refresh token.
func AuthCodeURL(cfg *oauth2.Config, state string) string {
	return cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for a token.
func Exchange(ctx context.Context, cfg *oauth2.Config, code string) (*oauth2.Token, error) {
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, &Error{Message: "failed to exchange authorization code", Cause: err}
	}
	return tok, nil
}

// LoadToken reads a token saved by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &Error{Message: fmt.Sprintf("token file %s not found, run gmail-auth first", path), Cause: err}
		}
		return nil, &Error{Message: "failed to read token file " + path, Cause: err}
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, &Error{Message: "invalid token file " + path, Cause: err}
	}
	return &tok, nil
}

// SaveToken writes a token readable only by the current user.
func SaveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return &Error{Message: "failed to encode token", Cause: err}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return &Error{Message: "failed to create token directory", Cause: err}
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return &Error{Message: "failed to write token file " + path, Cause: err}
	}
	return nil
}

// savingTokenSource persists the token whenever the underlying source refreshes it.
type savingTokenSource struct {
	base oauth2.TokenSource
	path string
	log  zerolog.Logger

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := SaveToken(s.path, tok); err != nil {
			s.log.Warn().Err(err).Msg("failed to save refreshed token")
		} else {
			s.log.Debug().Str("path", s.path).Msg("saved refreshed token")
		}
	}
	return tok, nil
}
