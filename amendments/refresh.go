// Package amendments implements the change-data-capture refresh pass: the
// amendment collection a legislation ingest run populates alongside every
// document doubles as a manifest of which parents need rescraping, so a
// scheduled refresh never has to re-sweep a whole year to catch an update.
package amendments

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/i-dot-ai/lex/ai/providers/vectorstores/qdrant"
	"github.com/i-dot-ai/lex/ai/vectorstore/filter"
	"github.com/i-dot-ai/lex/legislation"
)

// DefaultLookbackWindowYears bounds how far back Refresh looks for
// amendments worth acting on, absent an explicit override.
const DefaultLookbackWindowYears = 2

const scrollPageSize = 500

// AmendmentScroller is the read surface Refresh needs over the amendment
// collection and the parent legislation collection — satisfied directly by
// *qdrant.Store.
type AmendmentScroller interface {
	Scroll(ctx context.Context, collection string, expr filter.Expression, limit uint32, withPayload bool, offsetID string) (points []qdrant.ScrollPoint, nextOffset string, err error)
}

// Rescraper performs the fetch-parse-embed-upsert cycle for a known set of
// canonical document urls — satisfied by *pipeline.Orchestrator. Refresh
// never re-implements that path; it only decides which urls belong in the
// next call.
type Rescraper interface {
	RescrapeURLs(ctx context.Context, urls []string) (upserted int, err error)
}

// Collections names the two collections Refresh reads: the amendment
// change-manifest and the parent legislation documents it checks for
// staleness.
type Collections struct {
	Amendments  string
	Legislation string
}

// Planner decides which documents an amendment manifest marks as needing a
// rescrape, then delegates the actual rescraping to a Rescraper.
type Planner struct {
	store      AmendmentScroller
	rescraper  Rescraper
	cols       Collections
	lookback   int
}

// NewPlanner builds a Planner. A zero lookbackYears falls back to
// DefaultLookbackWindowYears.
func NewPlanner(store AmendmentScroller, rescraper Rescraper, cols Collections, lookbackYears int) *Planner {
	if lookbackYears <= 0 {
		lookbackYears = DefaultLookbackWindowYears
	}
	return &Planner{store: store, rescraper: rescraper, cols: cols, lookback: lookbackYears}
}

// Stats summarizes one Refresh call.
type Stats struct {
	AmendmentsScanned int
	ChangedDocuments  int
	Stale             int
	Missing           int
	Rescraped         int
}

// Refresh scrolls every amendment whose AffectingYear falls within the
// lookback window, groups them by ChangedDocumentID, and decides per group
// whether the parent document is missing, stale (its stored modified_date
// precedes the newest affecting amendment in the group), or current. force
// bypasses the staleness check and rescrapes every changed id the window
// covers, missing or not.
func (p *Planner) Refresh(ctx context.Context, now time.Time, force bool) (Stats, error) {
	var stats Stats

	cutoffYear := now.Year() - p.lookback
	expr, err := filter.NewExprBuilder().GTE("affecting_year", cutoffYear).Build()
	if err != nil {
		return stats, fmt.Errorf("amendments: build lookback filter: %w", err)
	}

	records, err := p.scrollAll(ctx, p.cols.Amendments, expr)
	if err != nil {
		return stats, fmt.Errorf("amendments: scroll amendment collection: %w", err)
	}
	stats.AmendmentsScanned = len(records)

	grouped := lo.GroupBy(records, func(r amendmentRecord) string {
		return r.changedDocumentID
	})
	stats.ChangedDocuments = len(grouped)

	newestByID := lo.MapValues(grouped, func(group []amendmentRecord, _ string) int {
		newest := 0
		for _, r := range group {
			if r.affectingYear > newest {
				newest = r.affectingYear
			}
		}
		return newest
	})

	changedIDs := lo.Keys(grouped)
	modifiedByID, err := p.lookupModifiedDates(ctx, changedIDs)
	if err != nil {
		return stats, fmt.Errorf("amendments: lookup parent documents: %w", err)
	}

	var staleIDs []string
	for _, id := range changedIDs {
		modified, found := modifiedByID[id]
		switch {
		case !found:
			stats.Missing++
			staleIDs = append(staleIDs, id)
		case force:
			stats.Stale++
			staleIDs = append(staleIDs, id)
		case isStale(modified, newestByID[id]):
			stats.Stale++
			staleIDs = append(staleIDs, id)
		}
	}

	if len(staleIDs) == 0 {
		return stats, nil
	}

	urls := make([]string, 0, len(staleIDs))
	for _, id := range staleIDs {
		if url, ok := legislation.CanonicalDataURL(legislation.DocumentID(id)); ok {
			urls = append(urls, url)
		}
	}

	upserted, err := p.rescraper.RescrapeURLs(ctx, urls)
	stats.Rescraped = upserted
	if err != nil {
		return stats, fmt.Errorf("amendments: rescrape stale documents: %w", err)
	}
	return stats, nil
}

// isStale reports whether a parent document's stored modified_date
// precedes the newest amendment affecting it — a document with no
// modified_date on record is treated as stale, since there is nothing to
// compare the amendment against.
func isStale(modified *time.Time, newestAffectingYear int) bool {
	if modified == nil {
		return true
	}
	return modified.Year() < newestAffectingYear
}

type amendmentRecord struct {
	changedDocumentID string
	affectingYear     int
}

func (p *Planner) scrollAll(ctx context.Context, collection string, expr filter.Expression) ([]amendmentRecord, error) {
	var out []amendmentRecord
	offset := ""
	for {
		points, next, err := p.store.Scroll(ctx, collection, expr, scrollPageSize, true, offset)
		if err != nil {
			return nil, err
		}
		for _, pt := range points {
			id, _ := pt.Payload["changed_document_id"].(string)
			if id == "" {
				continue
			}
			year := toInt(pt.Payload["affecting_year"])
			out = append(out, amendmentRecord{changedDocumentID: id, affectingYear: year})
		}
		if next == "" {
			break
		}
		offset = next
	}
	return out, nil
}

// lookupModifiedDates batch-scrolls the legislation collection, filtering
// by id IN (changedIDs), and returns the stored modified_date per id found.
// An id absent from the returned map was not found at all — the "missing
// parent" case Refresh treats the same as staleness.
func (p *Planner) lookupModifiedDates(ctx context.Context, ids []string) (map[string]*time.Time, error) {
	out := make(map[string]*time.Time, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	expr, err := filter.NewExprBuilder().In("id", values...).EQ("kind", "document").Build()
	if err != nil {
		return nil, fmt.Errorf("build id filter: %w", err)
	}

	offset := ""
	for {
		points, next, err := p.store.Scroll(ctx, p.cols.Legislation, expr, scrollPageSize, true, offset)
		if err != nil {
			return nil, err
		}
		for _, pt := range points {
			id, _ := pt.Payload["id"].(string)
			if id == "" {
				continue
			}
			out[id] = parseModifiedDate(pt.Payload["modified_date"])
		}
		if next == "" {
			break
		}
		offset = next
	}
	return out, nil
}

func parseModifiedDate(v any) *time.Time {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
