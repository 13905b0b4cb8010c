// Package markup renders answer text for display. Detection is line based and best effort:
// answers are unstructured prose and anything unrecognized stays a paragraph.
package markup

import (
	"html"
	"regexp"
	"strings"
)

type BlockKind string

const (
	Paragraph BlockKind = "paragraph"
	ListItem  BlockKind = "list_item"
)

// Block is one rendered line. HTML is escaped, only <strong> is ever produced.
type Block struct {
	Kind BlockKind `json:"kind"`
	HTML string    `json:"html"`
}

var boldPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)

func Format(text string) []Block {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var blocks []Block
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if item, ok := listItem(trimmed); ok {
			blocks = append(blocks, Block{Kind: ListItem, HTML: html.EscapeString(item)})
			continue
		}
		blocks = append(blocks, Block{Kind: Paragraph, HTML: emphasize(html.EscapeString(line))})
	}
	return blocks
}

func listItem(line string) (string, bool) {
	for _, marker := range []string{"* ", "- "} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return rest, true
		}
	}
	return "", false
}

// escaping leaves '*' alone, so emphasis can be applied to the escaped text
func emphasize(escaped string) string {
	return boldPattern.ReplaceAllString(escaped, "<strong>$1</strong>")
}
