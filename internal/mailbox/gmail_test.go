package mailbox

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type draftRequest struct {
	Message struct {
		Raw string `json:"raw"`
	} `json:"message"`
}

func newTestGmail(t *testing.T, handler http.HandlerFunc) *Gmail {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewGmail(context.Background(), zerolog.Nop(),
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)
	return g
}

func TestCreateDraft(t *testing.T) {
	var got draftRequest
	var path string
	g := newTestGmail(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "r-123", "message": {"id": "m-1"}}`))
	})

	id, err := g.CreateDraft(context.Background(), "sam@example.com", "Hello", "Hi Sam")
	require.NoError(t, err)
	assert.Equal(t, "r-123", id)
	assert.Equal(t, "/gmail/v1/users/me/drafts", path)

	raw, err := base64.URLEncoding.DecodeString(got.Message.Raw)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "To: sam@example.com\r\n")
	assert.Contains(t, string(raw), "Subject: Hello\r\n")
	assert.Contains(t, string(raw), "\r\n\r\nHi Sam")
}

func TestCreateDraft_EmptyID(t *testing.T) {
	g := newTestGmail(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := g.CreateDraft(context.Background(), "sam@example.com", "Hello", "Hi")
	var mErr *Error
	require.ErrorAs(t, err, &mErr)
	assert.Contains(t, mErr.Message, "without an id")
}

func TestCreateDraft_APIError(t *testing.T) {
	g := newTestGmail(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "insufficient scope"}}`))
	})

	_, err := g.CreateDraft(context.Background(), "sam@example.com", "Hello", "Hi")
	assert.ErrorContains(t, err, "failed to create draft")
	assert.ErrorContains(t, err, "insufficient scope")
}

func TestCreateDraft_InvalidRecipient(t *testing.T) {
	called := false
	g := newTestGmail(t, func(http.ResponseWriter, *http.Request) { called = true })

	_, err := g.CreateDraft(context.Background(), "not-an-address", "Hello", "Hi")
	assert.ErrorContains(t, err, "invalid recipient")
	assert.False(t, called)
}
