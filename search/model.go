// Package search implements the read-only query surface over the vector
// store the ingest pipeline populates: section search, act search (section
// search grouped and ranked by parent document), and the non-ranked lookup
// operations the documentation/browsing surface needs.
package search

import "github.com/i-dot-ai/lex/legislation"

// Filters narrows a search or lookup to a subset of the corpus. A non-empty
// LegislationID overrides every other field. Otherwise Types, Category, and
// the year range compose conjunctively.
type Filters struct {
	LegislationID string
	Types         []legislation.Type
	Category      legislation.Category
	YearFrom      int
	YearTo        int
}

// SectionMatch is one section attached to an Act result, carrying only
// enough to render a result list entry rather than the full section body.
type SectionMatch struct {
	Number        string  `json:"number"`
	ProvisionType string  `json:"provision_type"`
	Score         float64 `json:"score"`
}

// Act is one parent document returned by SearchActs, enriched with the
// top-scoring sections that matched the query within it.
type Act struct {
	legislation.Document
	Sections []SectionMatch `json:"sections"`
}

// ActResults is the paginated envelope SearchActs returns.
type ActResults struct {
	Results []Act `json:"results"`
	Total   int   `json:"total"`
	Offset  int   `json:"offset"`
	Limit   int   `json:"limit"`
}
