// Package wikiurl translates ONES Wiki page URLs into the identifiers and
// backend API endpoints used to retrieve page content.
package wikiurl

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidFormat is returned when a URL does not match the expected
// ONES Wiki page URL pattern.
var ErrInvalidFormat = errors.New("invalid wiki URL format")

// pagePattern matches ONES Wiki page URLs of the form:
// https://example.com/wiki/#/team/AQzvsooq/space/EYvdiwVh/page/4RwySM6h
//
// The page routing lives behind the URL fragment, so net/url path parsing
// never sees the team/space/page segments; the URL is dissected with a
// regular expression instead.
var pagePattern = regexp.MustCompile(`^https://([^/]+)/wiki/#/team/([^/]+)/space/([^/]+)/page/([^/]+)$`)

// Reference identifies a single wiki page: the host serving it, the team
// and space it belongs to, and the page itself. A Reference is derived once
// per request from the input URL and is immutable afterwards.
type Reference struct {
	Host    string
	TeamID  string
	SpaceID string // captured for completeness; no endpoint consumes it
	PageID  string
}

// Parse extracts a Reference from a wiki page URL.
//
// Returns ErrInvalidFormat (wrapped with the offending URL) if the URL does
// not match the expected pattern or any captured segment is empty. Partial
// matches are not accepted.
func Parse(wikiURL string) (Reference, error) {
	m := pagePattern.FindStringSubmatch(wikiURL)
	if m == nil {
		return Reference{}, fmt.Errorf("%w: %s", ErrInvalidFormat, wikiURL)
	}

	ref := Reference{
		Host:    m[1],
		TeamID:  m[2],
		SpaceID: m[3],
		PageID:  m[4],
	}

	if ref.Host == "" || ref.TeamID == "" || ref.SpaceID == "" || ref.PageID == "" {
		return Reference{}, fmt.Errorf("%w: %s", ErrInvalidFormat, wikiURL)
	}

	return ref, nil
}

// ContentEndpoint returns the primary API endpoint for retrieving the
// rendered content of the referenced page.
func ContentEndpoint(ref Reference) string {
	return fmt.Sprintf("https://%s/wiki/api/wiki/team/%s/online_page/%s/content",
		ref.Host, ref.TeamID, ref.PageID)
}

// PageEndpoint returns the alternative API endpoint for retrieving the
// referenced page. It is tried when the content endpoint fails.
func PageEndpoint(ref Reference) string {
	return fmt.Sprintf("https://%s/wiki/api/wiki/team/%s/page/%s",
		ref.Host, ref.TeamID, ref.PageID)
}

// LoginEndpoint returns the authentication endpoint for the given host.
func LoginEndpoint(host string) string {
	return fmt.Sprintf("https://%s/project/api/project/auth/login", host)
}

// RefererFor returns the Referer header value the wiki API expects for
// requests against the given host.
func RefererFor(host string) string {
	return fmt.Sprintf("https://%s/wiki/", host)
}
