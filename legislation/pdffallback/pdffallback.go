// Package pdffallback recovers legislation that exists only as a scanned
// PDF — pre-digital instruments with no XML rendering on
// legislation.gov.uk — by locating the PDF on the instrument's resources
// page and extracting its text natively.
package pdffallback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/i-dot-ai/lex/legislation"
)

// MinValidTextLength is the minimum trimmed text length IsXMLContentValid
// accepts. The pipeline's PDF fallback does not consult it: it runs only
// when the XML has no body (parse.ErrNoBody), not when the text is short.
const MinValidTextLength = 100

// IsXMLContentValid reports whether XML-extracted text is long enough to
// trust, mirroring the source's `is_xml_content_valid`.
func IsXMLContentValid(text string) bool {
	return len(strings.TrimSpace(text)) >= MinValidTextLength
}

// Fetcher retrieves a URL's body. It is satisfied by httpclient.Client so
// the resources-page lookup and PDF download go through C1's cache,
// rate-limit, and retry middleware rather than a bare net/http call.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

var pdfHrefPattern = regexp.MustCompile(`href="([^"]+\.pdf)"`)

// FindPDFURL scrapes a legislation item's resources page for a PDF link,
// preferring an English-language ("_en.pdf") rendition, matching
// `get_pdf_url_from_resources`.
func FindPDFURL(ctx context.Context, f Fetcher, legislationID string) (string, error) {
	resourcesURL := fmt.Sprintf("https://www.legislation.gov.uk/%s/resources", legislationID)
	body, err := f.Get(ctx, resourcesURL)
	if err != nil {
		return "", fmt.Errorf("pdffallback: fetching resources page: %w", err)
	}

	matches := pdfHrefPattern.FindAllStringSubmatch(string(body), -1)
	if len(matches) == 0 {
		return "", nil
	}

	var first string
	for _, m := range matches {
		href := m[1]
		if first == "" {
			first = href
		}
		if strings.Contains(strings.ToLower(href), "_en.pdf") {
			return absoluteURL(href), nil
		}
	}
	return absoluteURL(first), nil
}

func absoluteURL(href string) string {
	if strings.HasPrefix(href, "/") {
		return "https://www.legislation.gov.uk" + href
	}
	return href
}

// Section is one heading-delimited chunk of native PDF text, prior to
// being folded into a legislation.Section.
type Section struct {
	Heading string
	Text    string
}

// ExtractText pulls plain text page by page from a PDF using native text
// extraction (never OCR/rasterization — that is a distinct, heavier path
// the source system reserves for scanned-image PDFs).
func ExtractText(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("pdffallback: opening pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

var numberedHeading = regexp.MustCompile(`^(\d+)\.\s+`)

// SplitSections breaks whole-document PDF text into sections on
// numbered-heading lines ("1. Short title", "2. Interpretation", ...),
// the historical-instrument analogue of the XML-dialect's P1 elements.
func SplitSections(text string) []Section {
	lines := strings.Split(text, "\n")
	var out []Section
	var cur *Section

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if numberedHeading.MatchString(trimmed) {
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &Section{Heading: trimmed}
			continue
		}
		if cur == nil {
			cur = &Section{}
		}
		if cur.Text != "" {
			cur.Text += "\n"
		}
		cur.Text += trimmed
	}
	if cur != nil {
		out = append(out, *cur)
	}
	if len(out) == 0 && strings.TrimSpace(text) != "" {
		out = append(out, Section{Text: strings.TrimSpace(text)})
	}
	return out
}

// BuildDocument assembles a legislation.Document and its sections from
// extracted PDF text, stamping Provenance so downstream consumers can
// distinguish OCR/native-PDF content from XML-sourced content.
func BuildDocument(legislationID, pdfURL string, sections []Section, now time.Time) (legislation.Document, []legislation.Section) {
	typ, year, number, _ := legislation.DocumentID(legislationID).Split()
	docID := legislation.DocumentID(fmt.Sprintf("http://www.legislation.gov.uk/id/%s", legislationID))

	doc := legislation.Document{
		ID:             docID,
		URI:            fmt.Sprintf("http://www.legislation.gov.uk/%s", legislationID),
		Title:          fmt.Sprintf("Unknown (%s)", legislationID),
		Type:           typ,
		Year:           year,
		Number:         number,
		Status:         legislation.StatusUnknown,
		Category:       legislation.CategoryFor(typ),
		ModifiedDate:   &now,
		Publisher:      "legislation.gov.uk",
		ProvisionCount: len(sections),
		Provenance: &legislation.Provenance{
			Source:        legislation.ProvenanceOCR,
			Model:         "pdf-native-extraction",
			PromptVersion: "pdf-extraction-1.0",
			Timestamp:     now.Format(time.RFC3339),
		},
	}

	legSections := make([]legislation.Section, 0, len(sections))
	for i, s := range sections {
		id := fmt.Sprintf("%s/section/%d", docID, i+1)
		n := i + 1
		legSections = append(legSections, legislation.Section{
			ID:            id,
			URI:           id,
			LegislationID: docID,
			Title:         headingOrDefault(s.Heading, n),
			Text:          s.Text,
			ProvisionType: legislation.ProvisionSection,
			Number:        &n,
			Provenance:    doc.Provenance,
		})
	}

	sort.SliceStable(legSections, func(i, j int) bool {
		return sectionNum(legSections[i]) < sectionNum(legSections[j])
	})

	return doc, legSections
}

func headingOrDefault(heading string, n int) string {
	if heading == "" {
		return fmt.Sprintf("Section %d", n)
	}
	return heading
}

func sectionNum(s legislation.Section) int {
	if s.Number == nil {
		return 0
	}
	return *s.Number
}

// readerAtFromBytes adapts a downloaded PDF byte slice to io.ReaderAt for
// ExtractText, so callers never need to spool to a temp file.
func readerAtFromBytes(b []byte) (io.ReaderAt, int64) {
	return bytes.NewReader(b), int64(len(b))
}

// ExtractTextFromBytes is the common entrypoint once a PDF has been
// downloaded into memory by a Fetcher.
func ExtractTextFromBytes(b []byte) (string, error) {
	r, size := readerAtFromBytes(b)
	return ExtractText(r, size)
}

// ParseLegislationID splits a bare "type/year/number" legislation id (the
// form the resources-page URL and the cron-scheduled backfill both use)
// into its type/year/number triple, independent of DocumentID.Split's
// URL-prefixed form.
func ParseLegislationID(id string) (typ string, year, number int, err error) {
	parts := strings.Split(id, "/")
	if len(parts) < 3 {
		return "", 0, 0, fmt.Errorf("pdffallback: invalid legislation id %q", id)
	}
	y, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("pdffallback: invalid year in %q: %w", id, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("pdffallback: invalid number in %q: %w", id, err)
	}
	return parts[0], y, n, nil
}
