// Package wiki orchestrates the wiki content pipeline: session, URL
// translation, fetch, and rendering. It is the error boundary of the
// system: every failure class terminates here in a human-readable string
// suitable for direct display to an end user or LLM, and nothing propagates
// past GetWikiContent.
package wiki

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ones-wiki/ones-wiki-mcp-server/internal/fetcher"
	"github.com/ones-wiki/ones-wiki-mcp-server/internal/session"
	"github.com/ones-wiki/ones-wiki-mcp-server/internal/wikiurl"
)

// SessionProvider yields an authenticated session, logging in lazily on
// first use.
type SessionProvider interface {
	Ensure(ctx context.Context) (session.Session, error)
}

// PageFetcher retrieves raw page content for a page request.
type PageFetcher interface {
	FetchPage(ctx context.Context, req fetcher.PageRequest) (string, error)
}

// ContentRenderer converts raw page content to readable text.
type ContentRenderer interface {
	Render(raw string) string
}

// Service implements the get_wiki_content operation.
type Service struct {
	sessions SessionProvider
	fetcher  PageFetcher
	renderer ContentRenderer
	logger   zerolog.Logger
}

// NewService creates the wiki content service.
func NewService(sessions SessionProvider, pages PageFetcher, renderer ContentRenderer, logger zerolog.Logger) *Service {
	return &Service{
		sessions: sessions,
		fetcher:  pages,
		renderer: renderer,
		logger:   logger,
	}
}

// GetWikiContent retrieves a wiki page by URL and returns its AI-readable
// text rendering. All failures are reported as display strings; this method
// never returns an error value and never panics past its boundary.
func (s *Service) GetWikiContent(ctx context.Context, wikiURL string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Str("url", wikiURL).Msg("Unexpected failure while getting wiki content")
			result = fmt.Sprintf("Failed to get Wiki content: %v", r)
		}
	}()

	sess, err := s.sessions.Ensure(ctx)
	if err != nil {
		return "Login failed, unable to get Wiki content"
	}

	ref, err := wikiurl.Parse(wikiURL)
	if err != nil {
		return "URL format error: " + err.Error()
	}

	content, err := s.fetcher.FetchPage(ctx, fetcher.PageRequest{
		Primary:     wikiurl.ContentEndpoint(ref),
		Alternative: wikiurl.PageEndpoint(ref),
		Referer:     wikiurl.RefererFor(ref.Host),
		Token:       sess.Token,
		UserID:      sess.UserID,
	})
	if err != nil {
		return "Failed to get Wiki content: " + err.Error()
	}

	return s.renderer.Render(content)
}
