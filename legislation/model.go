package legislation

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DocumentID is a stable, content-addressable string of the form
// `<type>/<year>/<number>`, optionally suffixed `/section/<n>` or
// `/schedule/<n>`. The normalized form prefixes the canonical authority
// URL.
type DocumentID string

// Split returns the type, year, and number path components of a document
// id, independent of any URL prefix or provision suffix. Callers rely on
// this agreeing with the parsed Document.Type.
func (id DocumentID) Split() (typ Type, year, number int, ok bool) {
	parts := strings.Split(strings.TrimSuffix(string(id), "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		y, yerr := strconv.Atoi(parts[i+1])
		n, nerr := strconv.Atoi(parts[i+2])
		if yerr == nil && nerr == nil {
			return Type(parts[i]), y, n, true
		}
	}
	return "", 0, 0, false
}

// Document is the parent legislative instrument record.
type Document struct {
	ID              DocumentID `json:"id"`
	URI             string     `json:"uri"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	EnactmentDate   *time.Time `json:"enactment_date,omitempty"`
	ModifiedDate    *time.Time `json:"modified_date,omitempty"`
	Publisher       string     `json:"publisher,omitempty"`
	Category        Category   `json:"category"`
	Type            Type       `json:"type"`
	Year            int        `json:"year"`
	Number          int        `json:"number"`
	Status          Status     `json:"status"`
	Extent          []Extent   `json:"extent,omitempty"`
	ProvisionCount  int        `json:"number_of_provisions"`
	Provenance      *Provenance `json:"provenance,omitempty"`
}

// ResolveCategory prefers the explicit category over the type-derived one,
// but reports a disagreement for logging.
func (d *Document) ResolveCategory() (resolved Category, conflict bool) {
	derived := CategoryFor(d.Type)
	if d.Category == "" {
		return derived, false
	}
	if derived != CategoryUnknown && d.Category != derived {
		return d.Category, true
	}
	return d.Category, false
}

// Section is a child provision of a Document.
type Section struct {
	ID             string        `json:"id"`
	URI            string        `json:"uri"`
	LegislationID  DocumentID    `json:"legislation_id"`
	Title          string        `json:"title"`
	Text           string        `json:"text"`
	Extent         []Extent      `json:"extent,omitempty"`
	ProvisionType  ProvisionType `json:"provision_type"`
	Number         *int          `json:"number,omitempty"`
	Provenance     *Provenance   `json:"provenance,omitempty"`
	CommentaryRefs []string      `json:"commentary_refs,omitempty"`
}

// ParentType is the legislation type derived from LegislationID's path
// components, computed rather than stored.
func (s *Section) ParentType() Type {
	t, _, _, ok := s.LegislationID.Split()
	if !ok {
		return ""
	}
	return t
}

// ParentYear is the legislation year derived from LegislationID.
func (s *Section) ParentYear() int {
	_, y, _, ok := s.LegislationID.Split()
	if !ok {
		return 0
	}
	return y
}

// ParentNumber is the legislation number derived from LegislationID.
func (s *Section) ParentNumber() int {
	_, _, n, ok := s.LegislationID.Split()
	if !ok {
		return 0
	}
	return n
}

// NumberFromID parses the trailing numeric path component of the
// section's own id, mirroring the source's `number` computed field.
func (s *Section) NumberFromID() (int, bool) {
	parts := strings.Split(s.ID, "/")
	if len(parts) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// UnmarshalJSON unwraps a "text" field that is itself a JSON object
// carrying an inner "text" key — the inference-envelope shape a partially
// migrated corpus may still contain — to the inner plain string. This
// keeps Section.Text a plain string regardless of how it was persisted.
func (s *Section) UnmarshalJSON(data []byte) error {
	type alias Section
	var raw struct {
		alias
		Text json.RawMessage `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Section(raw.alias)

	var plain string
	if err := json.Unmarshal(raw.Text, &plain); err == nil {
		s.Text = plain
		return nil
	}

	var envelope struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw.Text, &envelope); err == nil {
		s.Text = envelope.Text
		return nil
	}
	return nil
}

// TypeOfEffect is the closed set of amendment-effect kinds recorded
// against an affected provision (e.g. "inserted", "repealed", "substituted").
type TypeOfEffect string

// Amendment is a searchable record of one instrument changing another,
// and doubles as the change manifest for incremental refresh.
type Amendment struct {
	ID                    string       `json:"id"`
	ChangedDocumentID     DocumentID   `json:"changed_document_id"`
	ChangedProvisionURL   string       `json:"changed_provision_url,omitempty"`
	AffectingDocumentID   DocumentID   `json:"affecting_document_id,omitempty"`
	AffectingProvisionURL string       `json:"affecting_provision_url,omitempty"`
	TypeOfEffect          TypeOfEffect `json:"type_of_effect"`
	AffectingYear         int          `json:"affecting_year"`
}

// ExplanatoryNote is editorial/explanatory text attached to a Document,
// ordered stably within its parent by Order.
type ExplanatoryNote struct {
	ID            string     `json:"id"`
	ParentID      DocumentID `json:"parent_document_id"`
	Route         []string   `json:"route"`
	Order         int        `json:"order"`
	NoteType      string     `json:"note_type"`
	SectionType   string     `json:"section_type,omitempty"`
	SectionNumber string     `json:"section_number,omitempty"`
	Text          string     `json:"text"`
}

// Commentary is an editorial annotation attached to a provision, typically
// citing amending instruments, collected into a map keyed by id.
type Commentary struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
