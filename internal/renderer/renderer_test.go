package renderer

import (
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// TestRender_EmptyInput tests the empty-content sentinel
func TestRender_EmptyInput(t *testing.T) {
	r := New(ModeText)

	for _, in := range []string{"", "   ", "\n\t  \n"} {
		if got := r.Render(in); got != "Content is empty" {
			t.Errorf("Expected 'Content is empty' for %q, got %q", in, got)
		}
	}
}

// TestRender_Deterministic tests that rendering the same content twice
// yields identical output
func TestRender_Deterministic(t *testing.T) {
	r := New(ModeText)

	inputs := []string{
		`{"blocks":[{"type":"text","heading":1,"text":[{"insert":"Once"}]}]}`,
		`<h1>Heading</h1><p>Paragraph text here.</p>`,
		`not html, not json`,
	}

	for _, in := range inputs {
		first := r.Render(in)
		second := r.Render(in)
		if first != second {
			t.Errorf("Rendering is not deterministic for %q: %q vs %q", in, first, second)
		}
	}
}

// TestRender_JSONFailureFallsBackToHTML tests that content starting with
// '{' which is not parseable JSON is rendered as HTML instead
func TestRender_JSONFailureFallsBackToHTML(t *testing.T) {
	// Starts with '{' but is hopeless as JSON, and carries an HTML paragraph.
	raw := `{{{ <p>salvaged paragraph content</p>`

	got := New(ModeText).Render(raw)
	if !strings.Contains(got, "salvaged paragraph content") {
		t.Errorf("Expected HTML fallback to extract the paragraph, got %q", got)
	}
}

// TestRender_DispatchBySniffing tests that the strategy choice depends only
// on the first non-whitespace character
func TestRender_DispatchBySniffing(t *testing.T) {
	r := New(ModeText)

	json := `  {"blocks":[{"type":"text","heading":3,"text":[{"insert":"From JSON"}]}]}`
	if got := r.Render(json); got != "### From JSON" {
		t.Errorf("Leading whitespace must not defeat JSON sniffing, got %q", got)
	}

	html := `  <h3>From HTML</h3>`
	if got := r.Render(html); !strings.Contains(got, "### From HTML") {
		t.Errorf("Expected HTML rendering, got %q", got)
	}
}

// TestRender_MarkdownMode tests the wholesale HTML→Markdown conversion mode
func TestRender_MarkdownMode(t *testing.T) {
	r := New(ModeMarkdown)

	got := r.Render("<h1>Hello</h1><p>World paragraph.</p>")
	if !strings.Contains(got, "# Hello") {
		t.Errorf("Expected markdown heading, got %q", got)
	}
	if !strings.Contains(got, "World paragraph.") {
		t.Errorf("Expected paragraph text, got %q", got)
	}
}

// TestRender_MarkdownModeStructuredUnchanged tests that JSON block content
// renders identically in both modes
func TestRender_MarkdownModeStructuredUnchanged(t *testing.T) {
	doc := `{"blocks":[{"type":"text","heading":2,"text":[{"insert":"Same"}]}]}`

	text := New(ModeText).Render(doc)
	md := New(ModeMarkdown).Render(doc)
	if text != md {
		t.Errorf("Structured rendering must not depend on mode: %q vs %q", text, md)
	}
}

// TestRender_UnknownModeDefaultsToText tests the mode fallback in New
func TestRender_UnknownModeDefaultsToText(t *testing.T) {
	r := New(Mode("surprise"))
	if r.mode != ModeText {
		t.Errorf("Expected fallback to ModeText, got %q", r.mode)
	}
}

// TestRender_OutputIsValidMarkdown parses rendered block output with
// goldmark and checks the expected document structure survives
func TestRender_OutputIsValidMarkdown(t *testing.T) {
	doc := `{"blocks":[
		{"type":"text","heading":2,"text":[{"insert":"Overview"}]},
		{"type":"list","text":[{"insert":"first item"}]},
		{"type":"list","text":[{"insert":"second item"}]}
	]}`

	rendered := New(ModeText).Render(doc)

	md := goldmark.New()
	source := []byte(rendered)
	root := md.Parser().Parse(gmtext.NewReader(source))

	heading, ok := root.FirstChild().(*ast.Heading)
	if !ok {
		t.Fatalf("Expected first markdown node to be a heading, got %T (rendered: %q)", root.FirstChild(), rendered)
	}
	if heading.Level != 2 {
		t.Errorf("Expected heading level 2, got %d", heading.Level)
	}

	var hasList bool
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if _, ok := n.(*ast.List); ok {
			hasList = true
		}
	}
	if !hasList {
		t.Errorf("Expected a markdown list in rendered output: %q", rendered)
	}
}
