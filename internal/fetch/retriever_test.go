package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	html  string
	err   error
	calls int
}

func (f *fakeRenderer) Render(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.html, f.err
}

func serveHTML(t *testing.T, status int, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func longPosting() string {
	return `<html><body><nav>Jobs Home</nav><main><h1>Staff Engineer</h1><p>` +
		strings.Repeat("Build reliable distributed systems. ", 30) +
		`</p><ul><li>Go</li><li>Kubernetes</li></ul><form>Apply now</form></main></body></html>`
}

func TestRetriever_Fetch(t *testing.T) {
	server := serveHTML(t, http.StatusOK, longPosting())
	renderer := &fakeRenderer{}
	r := &Retriever{Options: DefaultOptions(), Renderer: renderer, Logger: zerolog.Nop()}

	content, err := r.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, content, "# Staff Engineer")
	assert.Contains(t, content, "- Go")
	assert.NotContains(t, content, "Jobs Home")
	assert.NotContains(t, content, "Apply now")
	assert.Equal(t, 0, renderer.calls, "long content must not trigger the browser")
}

func TestRetriever_Fetch_BrowserFallback(t *testing.T) {
	server := serveHTML(t, http.StatusOK, `<html><body><div id="root">Loading...</div></body></html>`)
	renderer := &fakeRenderer{html: longPosting()}
	r := &Retriever{Options: DefaultOptions(), Renderer: renderer, Logger: zerolog.Nop()}

	content, err := r.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, 1, renderer.calls)
	assert.Contains(t, content, "Staff Engineer")
}

func TestRetriever_Fetch_BrowserFailureKeepsHTTPContent(t *testing.T) {
	server := serveHTML(t, http.StatusOK, `<html><body><main>Short posting</main></body></html>`)
	renderer := &fakeRenderer{err: errors.New("no chrome")}
	r := &Retriever{Options: DefaultOptions(), Renderer: renderer, Logger: zerolog.Nop()}

	content, err := r.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Short posting", content)
}

func TestRetriever_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		html   string
		want   string
	}{
		{"http status", http.StatusNotFound, "gone", "HTTP status 404"},
		{"empty page", http.StatusOK, "<html><body><nav>only nav</nav></body></html>", "no readable content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := serveHTML(t, tt.status, tt.html)
			r := NewRetriever(false, zerolog.Nop())

			content, err := r.Fetch(context.Background(), server.URL)

			var fetchErr *Error
			require.ErrorAs(t, err, &fetchErr)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, content)
		})
	}
}

func TestRetriever_Fetch_InvalidURL(t *testing.T) {
	_, err := NewRetriever(false, zerolog.Nop()).Fetch(context.Background(), "not-a-url")

	assert.ErrorContains(t, err, "invalid URL")
}

func TestNewRetriever_Browser(t *testing.T) {
	assert.Nil(t, NewRetriever(false, zerolog.Nop()).Renderer)
	assert.IsType(t, &Browser{}, NewRetriever(true, zerolog.Nop()).Renderer)
}
