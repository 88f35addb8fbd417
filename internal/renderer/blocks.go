package renderer

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// renderBlocks renders the block-based JSON document model.
//
// The document is a flat mapping from block id to node plus a root-level
// "blocks" array listing the top-level blocks in order. Child ids held by
// table and code blocks are references into that same mapping, resolved on
// demand; a missing id contributes no content, it is not an error.
//
// Returns an error only when the input cannot be parsed as JSON at all (one
// repair pass is made first); the caller then falls back to HTML rendering.
func renderBlocks(raw string) (string, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(raw)
		if repairErr != nil {
			return "", err
		}
		if unmarshalErr := json.Unmarshal([]byte(repaired), &doc); unmarshalErr != nil {
			return "", err
		}
		// Accept the repair only for documents that carry a block list;
		// arbitrary non-JSON text starting with '{' belongs to the HTML path.
		if _, ok := doc["blocks"]; !ok {
			return "", err
		}
	}

	var b strings.Builder
	blocks, _ := doc["blocks"].([]any)
	for _, entry := range blocks {
		block, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if out := renderBlock(block, doc); out != "" {
			b.WriteString(out)
			b.WriteString("\n")
		}
	}

	result := strings.TrimSpace(b.String())
	if result == "" {
		return sentinelNoContent, nil
	}
	return result, nil
}

// renderBlock renders one block by its type discriminant. Unknown types are
// a deliberate catch-all: if they carry inline text it is extracted,
// otherwise they contribute nothing. A panic inside any block makes that
// block contribute empty output without aborting the document.
func renderBlock(block map[string]any, doc map[string]any) (out string) {
	defer func() {
		if recover() != nil {
			out = ""
		}
	}()

	switch stringField(block, "type") {
	case "text":
		return renderTextBlock(block)
	case "list":
		return renderListBlock(block)
	case "table":
		return renderTableBlock(block, doc)
	case "embed":
		return renderEmbedBlock(block)
	case "code":
		return renderCodeBlock(block, doc)
	default:
		if text, ok := block["text"]; ok {
			return extractInlineText(text)
		}
		return ""
	}
}

func renderTextBlock(block map[string]any) string {
	var b strings.Builder

	if level, ok := intField(block, "heading"); ok && level >= 1 && level <= 6 {
		b.WriteString(strings.Repeat("#", level))
		b.WriteString(" ")
	}

	b.WriteString(extractInlineText(block["text"]))
	b.WriteString("\n")
	return b.String()
}

func renderListBlock(block map[string]any) string {
	text := extractInlineText(block["text"])
	if strings.TrimSpace(text) == "" {
		return ""
	}

	level, ok := intField(block, "level")
	if !ok {
		level = 1
	}
	indent := strings.Repeat("  ", max(level-1, 0))

	prefix := "- "
	if boolField(block, "ordered") {
		prefix = "1. "
	}

	return indent + prefix + text + "\n"
}

func renderTableBlock(block map[string]any, doc map[string]any) string {
	var b strings.Builder
	b.WriteString("\n### Table\n\n")

	cols, ok := intField(block, "cols")
	if !ok || cols <= 0 {
		cols = 2
	}

	children, _ := block["children"].([]any)
	for i, child := range children {
		cellID, ok := child.(string)
		if !ok {
			continue
		}

		// Cell ids resolve to arrays of content nodes in the root mapping.
		cellContents, ok := doc[cellID].([]any)
		if !ok {
			continue
		}

		for _, entry := range cellContents {
			cell, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := cell["text"]; ok {
				cellText := extractInlineText(text)
				if strings.TrimSpace(cellText) != "" {
					b.WriteString("| ")
					b.WriteString(cellText)
					b.WriteString(" ")
				}
			}
		}

		// Close the row after every cols-th resolved child.
		if (i+1)%cols == 0 {
			b.WriteString("|\n")
		}
	}

	b.WriteString("\n")
	return b.String()
}

func renderEmbedBlock(block map[string]any) string {
	if stringField(block, "embedType") != "image" {
		return ""
	}

	embedData, ok := block["embedData"].(map[string]any)
	if !ok {
		return ""
	}

	src := "Unknown image"
	if s, ok := embedData["src"].(string); ok {
		src = s
	}

	return "\n[Image: " + src + "]\n"
}

func renderCodeBlock(block map[string]any, doc map[string]any) string {
	var b strings.Builder
	b.WriteString("\n```")
	b.WriteString(stringField(block, "language"))
	b.WriteString("\n")

	children, _ := block["children"].([]any)
	for _, child := range children {
		childID, ok := child.(string)
		if !ok {
			continue
		}
		line, ok := doc[childID].(map[string]any)
		if !ok {
			continue
		}
		if text, ok := line["text"]; ok {
			b.WriteString(extractInlineText(text))
			b.WriteString("\n")
		}
	}

	b.WriteString("```\n")
	return b.String()
}

// extractInlineText concatenates the text of an array of inline runs. A run
// carrying an "insert" string contributes that text, unless its attributes
// mark it as a line break, in which case it contributes a newline instead.
// Missing or non-array input yields an empty string, never an error.
func extractInlineText(v any) string {
	runs, ok := v.([]any)
	if !ok {
		return ""
	}

	var b strings.Builder
	for _, entry := range runs {
		run, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		insert, ok := run["insert"].(string)
		if !ok {
			continue
		}

		if attrs, ok := run["attributes"].(map[string]any); ok {
			if t, ok := attrs["type"].(string); ok && t == "br" {
				b.WriteString("\n")
				continue
			}
		}

		b.WriteString(insert)
	}
	return b.String()
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func intField(m map[string]any, key string) (int, bool) {
	// encoding/json decodes all numbers to float64
	f, ok := m[key].(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}
