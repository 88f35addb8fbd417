// Package renderer converts raw ONES Wiki page content into flat,
// AI-readable text. It supports two content representations, the block-based
// JSON document model and raw HTML, selected by sniffing the first
// non-whitespace character, each with its own fallback path. Rendering is a
// total operation: malformed content degrades to descriptive sentinel text,
// it never returns an error.
package renderer

import "strings"

// Sentinel strings returned in place of content when extraction cannot
// produce anything useful.
const (
	sentinelEmpty      = "Content is empty"
	sentinelNoContent  = "No valid content extracted"
	sentinelFailPrefix = "Content processing failed: "
)

// Mode selects how HTML content is rendered. The structured JSON path is
// identical in both modes.
type Mode string

const (
	// ModeText extracts readable text tag by tag with dedicated table,
	// image, and link sections.
	ModeText Mode = "text"
	// ModeMarkdown converts HTML content to Markdown wholesale.
	ModeMarkdown Mode = "markdown"
)

// Renderer normalizes raw wiki content into readable text.
type Renderer struct {
	mode Mode
}

// New creates a Renderer. An unrecognized mode falls back to ModeText.
func New(mode Mode) *Renderer {
	if mode != ModeMarkdown {
		mode = ModeText
	}
	return &Renderer{mode: mode}
}

// Render converts raw page content to readable text. Empty input yields a
// fixed sentinel. Content starting with '{' gets one structured-block
// rendering attempt; if that attempt fails internally the content is
// rendered as HTML instead (never a second JSON attempt). Everything else
// is rendered as HTML directly.
//
// Rendering is deterministic: the same input always yields the same output.
func (r *Renderer) Render(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return sentinelEmpty
	}

	if strings.HasPrefix(trimmed, "{") {
		if out, err := renderBlocks(trimmed); err == nil {
			return out
		}
	}

	if r.mode == ModeMarkdown {
		if out, err := renderMarkdown(raw); err == nil && strings.TrimSpace(out) != "" {
			return strings.TrimSpace(out)
		}
	}

	return renderHTML(raw)
}
