package wikiurl

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestParse_ValidURL tests parsing a well-formed wiki page URL
func TestParse_ValidURL(t *testing.T) {
	ref, err := Parse("https://example.com/wiki/#/team/AQzvsooq/space/EYvdiwVh/page/4RwySM6h")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if ref.Host != "example.com" {
		t.Errorf("Expected host 'example.com', got '%s'", ref.Host)
	}
	if ref.TeamID != "AQzvsooq" {
		t.Errorf("Expected team 'AQzvsooq', got '%s'", ref.TeamID)
	}
	if ref.SpaceID != "EYvdiwVh" {
		t.Errorf("Expected space 'EYvdiwVh', got '%s'", ref.SpaceID)
	}
	if ref.PageID != "4RwySM6h" {
		t.Errorf("Expected page '4RwySM6h', got '%s'", ref.PageID)
	}
}

// TestParse_MalformedURLs tests that any deviation from the expected
// pattern fails with ErrInvalidFormat
func TestParse_MalformedURLs(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"missing scheme", "example.com/wiki/#/team/T/space/S/page/P"},
		{"http scheme", "http://example.com/wiki/#/team/T/space/S/page/P"},
		{"missing team segment", "https://example.com/wiki/#/space/S/page/P"},
		{"missing space segment", "https://example.com/wiki/#/team/T/page/P"},
		{"missing page segment", "https://example.com/wiki/#/team/T/space/S"},
		{"missing fragment", "https://example.com/wiki/team/T/space/S/page/P"},
		{"wrong literal path", "https://example.com/docs/#/team/T/space/S/page/P"},
		{"empty team id", "https://example.com/wiki/#/team//space/S/page/P"},
		{"empty page id", "https://example.com/wiki/#/team/T/space/S/page/"},
		{"trailing segment", "https://example.com/wiki/#/team/T/space/S/page/P/extra"},
		{"not a url at all", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.url)
			if err == nil {
				t.Fatalf("Expected error for %q, got none", tt.url)
			}
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Expected ErrInvalidFormat, got %v", err)
			}
		})
	}
}

// TestEndpoints tests the two endpoint builders against known values
func TestEndpoints(t *testing.T) {
	ref, err := Parse("https://h/wiki/#/team/T/space/S/page/P")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	primary := ContentEndpoint(ref)
	if primary != "https://h/wiki/api/wiki/team/T/online_page/P/content" {
		t.Errorf("Unexpected primary endpoint: %s", primary)
	}

	alternative := PageEndpoint(ref)
	if alternative != "https://h/wiki/api/wiki/team/T/page/P" {
		t.Errorf("Unexpected alternative endpoint: %s", alternative)
	}
}

// TestLoginEndpointAndReferer tests the auth endpoint and referer builders
func TestLoginEndpointAndReferer(t *testing.T) {
	if got := LoginEndpoint("ones.example.com"); got != "https://ones.example.com/project/api/project/auth/login" {
		t.Errorf("Unexpected login endpoint: %s", got)
	}
	if got := RefererFor("ones.example.com"); got != "https://ones.example.com/wiki/" {
		t.Errorf("Unexpected referer: %s", got)
	}
}

// TestParseRoundTripProperty verifies that any URL built from non-empty
// identifier segments parses back to exactly those segments, and that the
// endpoints embed them
func TestParseRoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	idGen := gen.Identifier()

	properties.Property("parse round trips generated identifiers", prop.ForAll(
		func(team, space, page string) bool {
			url := fmt.Sprintf("https://example.com/wiki/#/team/%s/space/%s/page/%s", team, space, page)
			ref, err := Parse(url)
			if err != nil {
				return false
			}
			if ref.TeamID != team || ref.SpaceID != space || ref.PageID != page {
				return false
			}
			return strings.Contains(ContentEndpoint(ref), team) &&
				strings.Contains(ContentEndpoint(ref), page) &&
				strings.Contains(PageEndpoint(ref), page)
		},
		idGen, idGen, idGen,
	))

	properties.TestingRun(t)
}
