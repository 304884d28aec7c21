package fetch

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Retriever turns a job link into markdown content. It fetches the page over HTTP,
// narrows it to the posting using platform selectors and converts it to markdown.
// When a Renderer is set and the HTTP content is too thin, the page is rendered in a
// browser and extracted again.
type Retriever struct {
	Options  *Options
	Renderer Renderer
	Logger   zerolog.Logger
}

// NewRetriever creates a retriever with default fetch options. useBrowser enables the
// headless browser fallback.
func NewRetriever(useBrowser bool, log zerolog.Logger) *Retriever {
	r := &Retriever{Options: DefaultOptions(), Logger: log}
	if useBrowser {
		r.Renderer = &Browser{Logger: log}
	}
	return r
}

// Fetch retrieves the page at url and returns its main content as markdown.
func (r *Retriever) Fetch(ctx context.Context, url string) (string, error) {
	platform := DetectPlatform(url)
	log := r.Logger.With().Str("url", url).Str("platform", string(platform)).Logger()

	page, err := Get(ctx, url, r.Options)
	if err != nil {
		return "", err
	}
	log.Debug().Int("bytes", len(page.HTML)).Str("final_url", page.FinalURL).Msg("fetched page")

	content, text, err := r.extract(page.HTML, platform)
	if err != nil {
		return "", &Error{URL: url, Message: "content extraction failed", Cause: err}
	}

	if r.Renderer != nil && ShouldUseBrowser(text) {
		log.Debug().Int("chars", len(text)).Int("min", MinContentLength).Msg("content too short, rendering in browser")
		if html, renderErr := r.Renderer.Render(ctx, url); renderErr != nil {
			log.Warn().Err(renderErr).Msg("browser rendering failed, keeping HTTP content")
		} else if rendered, renderedText, extractErr := r.extract(html, platform); extractErr != nil {
			log.Warn().Err(extractErr).Msg("browser content extraction failed, keeping HTTP content")
		} else if len(renderedText) > len(text) {
			content = rendered
		}
	}

	if strings.TrimSpace(content) == "" {
		return "", &Error{URL: url, Message: "content extraction failed", Cause: ErrEmptyContent}
	}
	log.Debug().Int("chars", len(content)).Msg("extracted content")
	return content, nil
}

// extract returns the markdown and plain-text renderings of the page's main content.
func (r *Retriever) extract(html string, platform Platform) (string, string, error) {
	section, err := SelectContent(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform))
	if err != nil {
		return "", "", err
	}
	content, err := ToMarkdown(section.HTML)
	if err != nil {
		return "", "", err
	}
	return content, section.Text, nil
}
