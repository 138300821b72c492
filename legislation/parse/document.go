package parse

import (
	"strconv"
	"time"

	"github.com/i-dot-ai/lex/legislation"
	"github.com/i-dot-ai/lex/xmltree"
)

const dateLayout = "2006-01-02"

// parseDocument extracts the Dublin Core / ukm metadata block common to
// both dialects.
func parseDocument(root *xmltree.Element) legislation.Document {
	legEl := root.Find("Legislation")

	// The legislation.gov.uk CLML schema declares "dc"/"dct"/"ukm" as XML
	// namespace prefixes; encoding/xml strips the prefix into Name.Local
	// regardless of whether the namespace resolves, so these element names
	// are looked up by local part only.
	doc := legislation.Document{
		Title:       extractText(root.Find("title")),
		Description: extractText(root.Find("description")),
		Publisher:   extractText(root.Find("publisher")),
		Status:      statusFromText(extractValue(root.Find("DocumentStatus"))),
		Category:    categoryFromText(extractValue(root.Find("DocumentCategory"))),
	}

	if legEl != nil {
		if uri, ok := legEl.Attr("IdURI"); ok {
			doc.ID = legislation.DocumentID(uri)
			doc.URI = uri
		}
		if n := legEl.AttrOr("NumberOfProvisions", ""); n != "" {
			if i, err := strconv.Atoi(n); err == nil {
				doc.ProvisionCount = i
			}
		}
	}

	if typ, year, number, ok := doc.ID.Split(); ok {
		doc.Type = typ
		doc.Year = year
		doc.Number = number
	}

	if ed := root.Find("EnactmentDate"); ed != nil {
		if t, ok := parseDate(ed.AttrOr("Date", "")); ok {
			doc.EnactmentDate = &t
		}
	}
	if modText := extractText(root.Find("modified")); modText != "" {
		if t, ok := parseDate(modText); ok {
			doc.ModifiedDate = &t
		}
	}

	extentCode := ""
	if legEl != nil {
		extentCode = legEl.AttrOr("RestrictExtent", "")
	}
	doc.Extent = legislation.ParseExtent(extentCode)

	return doc
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func extractValue(el *xmltree.Element) string {
	if el == nil {
		return ""
	}
	return el.AttrOr("Value", "")
}

func statusFromText(s string) legislation.Status {
	switch s {
	case "revoked", "repealed":
		return legislation.StatusRepealed
	case "", "inForce", "enacted":
		return legislation.StatusInForce
	default:
		return legislation.StatusUnknown
	}
}

func categoryFromText(s string) legislation.Category {
	switch s {
	case "primary":
		return legislation.CategoryPrimary
	case "secondary":
		return legislation.CategorySecondary
	case "european":
		return legislation.CategoryEuropean
	case "retained":
		return legislation.CategoryRetained
	default:
		return ""
	}
}
