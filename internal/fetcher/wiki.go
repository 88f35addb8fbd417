package fetcher

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// PageRequest describes one page retrieval: the candidate endpoint URLs in
// priority order and the authentication material for the request headers.
type PageRequest struct {
	Primary     string // content endpoint, tried first
	Alternative string // page endpoint, tried on any primary failure
	Referer     string
	Token       string
	UserID      string
}

// contentResponse is the wiki API response envelope for page content.
// Content is a pointer so an absent or null field is distinguishable from an
// empty page.
type contentResponse struct {
	Content *string `json:"content"`
}

// WikiFetcher retrieves raw wiki page content from the backend API.
type WikiFetcher struct {
	client *HTTPClient
	logger zerolog.Logger
}

// NewWikiFetcher creates a fetcher using the given HTTP client.
func NewWikiFetcher(client *HTTPClient, logger zerolog.Logger) *WikiFetcher {
	return &WikiFetcher{
		client: client,
		logger: logger,
	}
}

// FetchPage retrieves the raw content of a wiki page.
//
// The primary endpoint is tried first. On any failure there (HTTP error,
// network error, or a 2xx response whose content field is absent) the
// alternative endpoint is tried with identical headers. Exactly one
// successful fetch wins; if both fail the returned error carries both
// underlying failure messages.
func (f *WikiFetcher) FetchPage(ctx context.Context, req PageRequest) (string, error) {
	headers := map[string]string{
		"Referer": req.Referer,
		"Cookie":  fmt.Sprintf("language=en; ones-uid=%s; ones-lt=%s; timezone=Asia/Shanghai", req.UserID, req.Token),
	}

	content, primaryErr := f.fetchEndpoint(ctx, req.Primary, headers)
	if primaryErr == nil {
		return content, nil
	}

	f.logger.Warn().
		Err(primaryErr).
		Str("url", req.Primary).
		Msg("Primary endpoint failed, trying alternative")

	content, altErr := f.fetchEndpoint(ctx, req.Alternative, headers)
	if altErr == nil {
		return content, nil
	}

	f.logger.Error().
		AnErr("primary_error", primaryErr).
		AnErr("alternative_error", altErr).
		Msg("Both wiki endpoints failed")

	return "", fmt.Errorf("both primary and alternative endpoints failed: primary: %v, alternative: %v", primaryErr, altErr)
}

// fetchEndpoint retrieves content from a single endpoint. A successful
// response without a content field counts as a failure.
func (f *WikiFetcher) fetchEndpoint(ctx context.Context, url string, headers map[string]string) (string, error) {
	f.logger.Debug().
		Str("url", url).
		Msg("Fetching wiki page")

	var resp contentResponse
	if err := f.client.GetJSON(ctx, url, headers, &resp); err != nil {
		return "", err
	}

	if resp.Content == nil {
		return "", fmt.Errorf("no wiki content retrieved from %s", url)
	}

	f.logger.Info().
		Str("url", url).
		Int("content_size", len(*resp.Content)).
		Msg("Successfully fetched wiki page")

	return *resp.Content, nil
}
