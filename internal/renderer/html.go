package renderer

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// renderHTML extracts readable text from HTML content. It walks every
// element in document order emitting per-tag text, then appends dedicated
// table, image, and link sections so their structure survives the
// flattening. Strikethrough content is dropped before traversal.
//
// The function is total: parse or traversal failures degrade to a
// descriptive sentinel instead of an error.
func renderHTML(raw string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = sentinelFailPrefix + fmt.Sprint(r)
		}
	}()

	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return sentinelFailPrefix + err.Error()
	}

	removeStruckContent(doc)

	var b strings.Builder
	walkElements(doc, func(n *html.Node) {
		emitElement(n, &b)
	})

	// Nothing matched the per-tag rules; fall back to the full plain text.
	if b.Len() == 0 {
		if allText := fullText(doc); allText != "" {
			b.WriteString("Page content:\n")
			b.WriteString(allText)
		}
	}

	appendTableSection(doc, &b)
	appendImageSection(doc, &b)
	appendLinkSection(doc, &b)

	result := strings.TrimSpace(b.String())
	if result == "" {
		return sentinelNoContent
	}
	return result
}

// emitElement appends the per-tag rendering of a single element's own text
// (direct text children only, not descendants).
func emitElement(n *html.Node, b *strings.Builder) {
	tag := n.Data

	if level := headingLevel(tag); level > 0 {
		if text := ownText(n); text != "" {
			b.WriteString(strings.Repeat("#", level))
			b.WriteString(" ")
			b.WriteString(text)
			b.WriteString("\n\n")
		}
		return
	}

	switch tag {
	case "p":
		if text := ownText(n); text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	case "li":
		if text := ownText(n); text != "" {
			if n.Parent != nil && n.Parent.Data == "ol" {
				b.WriteString("- ")
			} else {
				b.WriteString("• ")
			}
			b.WriteString(text)
			b.WriteString("\n")
		}
	case "td", "th":
		if text := ownText(n); text != "" {
			b.WriteString("**")
			b.WriteString(text)
			b.WriteString("** ")
		}
	case "div", "span", "strong", "b":
		// Short fragments in layout elements are almost always noise.
		if text := ownText(n); len([]rune(text)) > 2 {
			b.WriteString(text)
			b.WriteString(" ")
		}
	}
}

// appendTableSection renders every table as key/value lines: the first two
// cells of a row become "**key**: value", single-cell rows become bullets.
func appendTableSection(doc *html.Node, b *strings.Builder) {
	tables := findAll(doc, "table")
	if len(tables) == 0 {
		return
	}

	b.WriteString("\n\n=== Table data ===\n")
	for i, table := range tables {
		fmt.Fprintf(b, "\n## Table %d\n", i+1)

		for _, row := range findAll(table, "tr") {
			cells := findAll(row, "th", "td")
			switch {
			case len(cells) >= 2:
				key := fullText(cells[0])
				value := fullText(cells[1])
				if key != "" && value != "" {
					fmt.Fprintf(b, "**%s**: %s\n", key, value)
				}
			case len(cells) == 1:
				if cellText := fullText(cells[0]); cellText != "" {
					fmt.Fprintf(b, "- %s\n", cellText)
				}
			}
		}
	}
}

func appendImageSection(doc *html.Node, b *strings.Builder) {
	images := findAll(doc, "img")
	if len(images) == 0 {
		return
	}

	b.WriteString("\n\n=== Image information ===\n")
	for _, img := range images {
		alt := attrValue(img, "alt")
		if alt == "" {
			alt = "No description"
		}
		b.WriteString("[Image: ")
		b.WriteString(alt)
		if src := attrValue(img, "src"); src != "" {
			b.WriteString(" - ")
			b.WriteString(src)
		}
		b.WriteString("]\n")
	}
}

func appendLinkSection(doc *html.Node, b *strings.Builder) {
	var anchors []*html.Node
	walkElements(doc, func(n *html.Node) {
		if n.Data == "a" && hasAttr(n, "href") {
			anchors = append(anchors, n)
		}
	})
	if len(anchors) == 0 {
		return
	}

	b.WriteString("\n\n=== Link information ===\n")
	for _, a := range anchors {
		text := fullText(a)
		href := attrValue(a, "href")
		// Fragment-only links navigate within the page; they carry no
		// retrievable target.
		if text != "" && href != "" && !strings.HasPrefix(href, "#") {
			fmt.Fprintf(b, "[Link: %s](%s)\n", text, href)
		}
	}
}

// removeStruckContent drops elements marked as deleted before traversal.
func removeStruckContent(n *html.Node) {
	var struck []*html.Node
	walkElements(n, func(e *html.Node) {
		switch e.Data {
		case "s", "strike", "del":
			struck = append(struck, e)
		}
	})
	for _, e := range struck {
		if e.Parent != nil {
			e.Parent.RemoveChild(e)
		}
	}
}

// walkElements visits every element node in document order.
func walkElements(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, fn)
	}
}

// findAll returns every descendant element (including n itself) matching one
// of the given tag names, in document order.
func findAll(n *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	walkElements(n, func(e *html.Node) {
		for _, tag := range tags {
			if e.Data == tag {
				out = append(out, e)
				break
			}
		}
	})
	return out
}

// ownText returns the whitespace-normalized text of an element's direct
// text children, excluding descendant elements.
func ownText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteString(" ")
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// fullText returns the whitespace-normalized text of a node and all of its
// descendants.
func fullText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteString(" ")
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	default:
		return 0
	}
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}
