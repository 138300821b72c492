package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/i-dot-ai/lex/legislation"
	"github.com/i-dot-ai/lex/xmltree"
)

// ErrNoBody signals that the document carries no Body (UK) or EUBody (EU)
// element and therefore exists only as a PDF — the exact C5 fallback
// trigger.
var ErrNoBody = errors.New("parse: legislation has no XML body, PDF only")

// Result is everything a dialect parser extracts from one document's XML.
type Result struct {
	Document     legislation.Document
	Sections     []legislation.Section
	Schedules    []legislation.Section
	Commentaries map[string]legislation.Commentary
	Amendments   []legislation.Amendment
}

// Parse dispatches to the UK or EU-retained dialect based on the presence
// of an EURetained marker element anywhere in the tree.
func Parse(root *xmltree.Element, legislationID legislation.DocumentID) (Result, error) {
	if root.Find("EURetained") != nil || root.Name.Local == "EURetained" {
		return parseEU(root, legislationID)
	}
	return parseUK(root, legislationID)
}

// --- shared helpers -------------------------------------------------------

func provisionNumber(el *xmltree.Element, prefix string) *int {
	id, ok := el.Attr("id")
	if !ok {
		return nil
	}
	n := strings.TrimPrefix(id, prefix)
	n = strings.Trim(n, ".")
	if n == "" {
		return nil
	}
	i, err := atoiLoose(n)
	if err != nil {
		return nil
	}
	return &i
}

// atoiLoose parses the leading integer of s, since ids like "1A" or
// "1-2" are not pure integers; non-numeric ids yield an error so the
// caller leaves Number nil rather than recording a bogus value.
func atoiLoose(s string) (int, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("parse: no leading digits in %q", s)
	}
	n := 0
	for _, c := range s[:i] {
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func commentaryRefs(el *xmltree.Element) []string {
	var refs []string
	for _, ref := range el.FindAll("CommentaryRef") {
		if v, ok := ref.Attr("Ref"); ok {
			refs = append(refs, v)
		}
	}
	return refs
}

func collectCommentaries(root *xmltree.Element) map[string]legislation.Commentary {
	out := make(map[string]legislation.Commentary)
	container := root.Find("Commentaries")
	if container == nil {
		return out
	}
	for _, c := range container.FindAll("Commentary") {
		id, ok := c.Attr("id")
		if !ok {
			continue
		}
		out[id] = legislation.Commentary{ID: id, Text: extractText(c)}
	}
	return out
}

// amendmentEffectCodes maps CLML's single-letter Commentary Type codes to
// the effect kind they describe. A code outside this table is kept
// verbatim rather than dropped, since the authority site adds new ones
// occasionally.
var amendmentEffectCodes = map[string]legislation.TypeOfEffect{
	"C": "modified",
	"F": "amended",
	"I": "inserted",
	"M": "omitted",
	"E": "extended",
	"P": "repealed",
}

func effectOfCode(code string) legislation.TypeOfEffect {
	if t, ok := amendmentEffectCodes[code]; ok {
		return t
	}
	return legislation.TypeOfEffect(code)
}

// collectAmendments derives one Amendment record per Citation nested inside
// a Commentary: the Commentary's Type code classifies the kind of effect,
// and each Citation names an instrument responsible for it against
// changedDocumentID. A Commentary with a CommentaryRef anchors
// ChangedProvisionURL to the specific provision it was attached to.
func collectAmendments(root *xmltree.Element, changedDocumentID legislation.DocumentID) []legislation.Amendment {
	container := root.Find("Commentaries")
	if container == nil {
		return nil
	}

	var amendments []legislation.Amendment
	for _, c := range container.FindAll("Commentary") {
		id, ok := c.Attr("id")
		if !ok {
			continue
		}
		effect := effectOfCode(c.AttrOr("Type", ""))

		provisionRef := ""
		if refs := commentaryRefs(c); len(refs) > 0 {
			provisionRef = refs[0]
		}

		for _, cite := range c.FindAll("Citation") {
			uri, ok := cite.Attr("URI")
			if !ok {
				continue
			}
			affectingID := legislation.DocumentID(uri)
			if typ, year, number, ok := affectingID.Split(); ok {
				affectingID = legislation.DocumentID(fmt.Sprintf("%s/%d/%d", typ, year, number))
			}
			year := 0
			if y := cite.AttrOr("Year", ""); y != "" {
				if n, err := strconv.Atoi(y); err == nil {
					year = n
				}
			}
			amendments = append(amendments, legislation.Amendment{
				ID:                    id + "-" + uri,
				ChangedDocumentID:     changedDocumentID,
				ChangedProvisionURL:   provisionRef,
				AffectingDocumentID:   affectingID,
				AffectingProvisionURL: cite.AttrOr("CitationRef", ""),
				TypeOfEffect:          effect,
				AffectingYear:         year,
			})
		}
	}
	return amendments
}

// parentExtent walks up to the nearest enclosing Part element and returns
// its RestrictExtent attribute, or "" if no such ancestor exists.
func parentExtent(el *xmltree.Element) string {
	for cur := el.Parent; cur != nil; cur = cur.Parent {
		if cur.Name.Local == "Part" {
			return cur.AttrOr("RestrictExtent", "")
		}
	}
	return ""
}

func resolveExtent(el *xmltree.Element, docExtent []legislation.Extent) []legislation.Extent {
	if code := parentExtent(el); code != "" {
		return legislation.ParseExtent(code)
	}
	return docExtent
}
