package parse

import (
	"strings"

	"github.com/i-dot-ai/lex/legislation"
	"github.com/i-dot-ai/lex/xmltree"
)

// parseEU implements the EUXMLParser dialect: content lives under EUBody
// rather than Body, divisions are P1[IdURI] elements (parsed much like a
// UK section, via their parent group), and schedules sit under the same
// Schedules container as the UK dialect.
func parseEU(root *xmltree.Element, legislationID legislation.DocumentID) (Result, error) {
	doc := parseDocument(root)
	if legislationID != "" {
		doc.ID = legislationID
		if typ, year, number, ok := legislationID.Split(); ok {
			doc.Type, doc.Year, doc.Number = typ, year, number
		}
	}
	doc.Category = legislation.CategoryRetained

	body := root.Find("EUBody")
	if body == nil {
		return Result{}, ErrNoBody
	}

	res := Result{
		Document:     doc,
		Commentaries: collectCommentaries(root),
		Amendments:   collectAmendments(root, doc.ID),
	}

	for _, p1 := range body.FindAll("P1") {
		if _, ok := p1.Attr("IdURI"); !ok {
			continue
		}
		res.Sections = append(res.Sections, parseEUDivision(p1, doc))
	}

	if schedules := root.Find("Schedules"); schedules != nil {
		for _, sch := range schedules.FindAll("Schedule") {
			if _, ok := sch.Attr("IdURI"); !ok {
				continue
			}
			res.Schedules = append(res.Schedules, parseEUSchedule(sch, doc))
		}
	}

	return res, nil
}

// parseEUDivision mirrors EUXMLParser._parse_division: same parent-group
// shape as the UK section, but the provision is called a "division". Its
// number is read from the leading digits of the id attribute after an
// optional "section-" prefix, and left nil when there are none.
func parseEUDivision(p1 *xmltree.Element, doc legislation.Document) legislation.Section {
	group := p1.Parent
	if group == nil {
		group = p1
	}

	id, _ := p1.Attr("IdURI")
	return legislation.Section{
		ID:             id,
		URI:            p1.AttrOr("DocumentURI", id),
		LegislationID:  doc.ID,
		Title:          extractText(group.Find("Title")),
		Text:           strings.TrimLeft(toMarkdown(group), "\n"),
		ProvisionType:  legislation.ProvisionSection,
		Number:         provisionNumber(p1, "section-"),
		Extent:         resolveExtent(p1, doc.Extent),
		CommentaryRefs: commentaryRefs(p1),
	}
}

func parseEUSchedule(sch *xmltree.Element, doc legislation.Document) legislation.Section {
	id, _ := sch.Attr("IdURI")
	return legislation.Section{
		ID:             id,
		URI:            sch.AttrOr("DocumentURI", id),
		LegislationID:  doc.ID,
		Title:          extractText(sch.Find("Title")),
		Text:           strings.TrimLeft(toMarkdown(sch), "\n"),
		ProvisionType:  legislation.ProvisionSchedule,
		Number:         provisionNumber(sch, "schedule-"),
		Extent:         resolveExtent(sch, doc.Extent),
		CommentaryRefs: commentaryRefs(sch),
	}
}
