package parse

import (
	"strings"

	"github.com/i-dot-ai/lex/legislation"
	"github.com/i-dot-ai/lex/xmltree"
)

// parseUK implements the UKXMLParser dialect: content lives under a single
// Body element, sections are P1[IdURI] elements whose enclosing group
// parent carries the title and combined text, and schedules are
// Schedule[IdURI] elements under a Schedules container.
func parseUK(root *xmltree.Element, legislationID legislation.DocumentID) (Result, error) {
	doc := parseDocument(root)
	if legislationID != "" {
		doc.ID = legislationID
		if typ, year, number, ok := legislationID.Split(); ok {
			doc.Type, doc.Year, doc.Number = typ, year, number
		}
	}

	body := root.Find("Body")
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
		res.Sections = append(res.Sections, parseUKSection(p1, doc))
	}

	if schedules := root.Find("Schedules"); schedules != nil {
		for _, sch := range schedules.FindAll("Schedule") {
			if _, ok := sch.Attr("IdURI"); !ok {
				continue
			}
			res.Schedules = append(res.Schedules, parseUKSchedule(sch, doc))
		}
	}

	return res, nil
}

// parseUKSection mirrors UKXMLParser._parse_section: the citable P1 element
// names the provision, but title and combined text come from its *parent*
// group element (the "Pblock"-style wrapper holding the Title child plus
// every nested P2 paragraph).
func parseUKSection(p1 *xmltree.Element, doc legislation.Document) legislation.Section {
	group := p1.Parent
	if group == nil {
		group = p1
	}

	id, _ := p1.Attr("IdURI")
	sec := legislation.Section{
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
	return sec
}

// parseUKSchedule mirrors UKXMLParser._parse_schedule: the Schedule element
// itself carries the title and text; nested paragraphs are direct P1[IdURI]
// children rather than P2.
func parseUKSchedule(sch *xmltree.Element, doc legislation.Document) legislation.Section {
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
