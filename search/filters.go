package search

import (
	"github.com/i-dot-ai/lex/ai/vectorstore/filter"
	"github.com/i-dot-ai/lex/legislation"
)

// GetFilters translates Filters into a filter.Expression: a specific
// LegislationID overrides every other field; otherwise the year range and
// type/category selection compose conjunctively. Category expands to its
// member types via legislation.TypesInCategory when no explicit Types list
// is given.
func GetFilters(f Filters) (filter.Expression, error) {
	b := filter.NewExprBuilder()
	applyFilters(b, f)
	return b.Build()
}

func applyFilters(b *filter.ExprBuilder, f Filters) {
	if f.LegislationID != "" {
		b.EQ("legislation_id", f.LegislationID)
		return
	}

	types := f.Types
	if len(types) == 0 && f.Category != "" {
		types = legislation.TypesInCategory(f.Category)
	}
	if len(types) > 0 {
		values := make([]any, len(types))
		for i, t := range types {
			values[i] = string(t)
		}
		b.In("type", values...)
	}

	if f.YearFrom > 0 {
		b.GTE("year", f.YearFrom)
	}
	if f.YearTo > 0 {
		b.LTE("year", f.YearTo)
	}
}

// sectionFilter is GetFilters scoped to section-kind records, the filter
// every section search and lookup runs against.
func sectionFilter(f Filters) (filter.Expression, error) {
	b := filter.NewExprBuilder().EQ("kind", "section")
	applyFilters(b, f)
	return b.Build()
}
