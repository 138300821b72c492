// Package parse converts legislation.gov.uk XML into the normalized
// legislation model (C4), dispatching between the UK and EU-retained
// dialects, and extracting section/schedule text via a Markdown-flavored
// tree walk.
package parse

import (
	"strings"

	"github.com/i-dot-ai/lex/xmltree"
)

// stripWrapperTags is the set of purely typographic elements whose
// content is kept but whose tag is discarded.
var stripWrapperTags = map[string]bool{
	"Emphasis": true, "Strong": true, "Uppercase": true,
}

// toMarkdown walks an element's subtree and renders a Markdown-flavored
// plain-text representation: paragraph numbering is preserved, list items
// get a leading "* " bullet, emphasis/strong/uppercase wrappers are
// stripped to their text content, and whitespace is collapsed.
func toMarkdown(el *xmltree.Element) string {
	var sb strings.Builder
	walkMarkdown(el, &sb)
	return collapseWhitespace(sb.String())
}

func walkMarkdown(el *xmltree.Element, sb *strings.Builder) {
	for _, child := range el.Children {
		switch n := child.(type) {
		case xmltree.CharData:
			sb.WriteString(string(n))
		case *xmltree.Element:
			switch {
			case n.Name.Local == "ListItem" || n.Name.Local == "Item":
				sb.WriteString(" * ")
				walkMarkdown(n, sb)
			case n.Name.Local == "UnorderedList" || n.Name.Local == "OrderedList":
				sb.WriteString("\n")
				walkMarkdown(n, sb)
				sb.WriteString("\n")
			case stripWrapperTags[n.Name.Local]:
				walkMarkdown(n, sb)
			case n.Name.Local == "Pnumber":
				sb.WriteString(" ")
				walkMarkdown(n, sb)
				sb.WriteString(" ")
			default:
				walkMarkdown(n, sb)
			}
		}
	}
}

// collapseWhitespace normalizes runs of whitespace to single spaces,
// trimming the ends, matching the source's `" ".join(text.split())`.
func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// extractText returns the cleaned text of an element, or "" for nil —
// the Go analogue of the source's `_extract_text`: whitespace is
// collapsed and a trailing " ." or " ," is tightened to just the
// punctuation mark.
func extractText(el *xmltree.Element) string {
	if el == nil {
		return ""
	}
	text := collapseWhitespace(el.AllText())
	if len(text) >= 2 {
		if tail := text[len(text)-2:]; tail == " ." || tail == " ," {
			text = text[:len(text)-2] + text[len(text)-1:]
		}
	}
	return text
}
