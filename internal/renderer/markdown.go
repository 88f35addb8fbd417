package renderer

import (
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// renderMarkdown converts HTML content to Markdown wholesale. It backs the
// optional ModeMarkdown rendering path; any conversion failure sends the
// caller to the tag-by-tag text renderer instead.
func renderMarkdown(raw string) (string, error) {
	return htmltomarkdown.ConvertString(raw)
}
