package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/i-dot-ai/lex/ai/model/embedding"
	"github.com/i-dot-ai/lex/ai/providers/vectorstores/qdrant"
	"github.com/i-dot-ai/lex/ai/vectorstore/filter"
	"github.com/i-dot-ai/lex/legislation"
)

const (
	// candidatePoolSize is how many sections SearchActs pulls from the
	// vector store before grouping; tuned to trade latency for result
	// diversity rather than raising it further.
	candidatePoolSize = 200

	// topSectionsPerAct caps how many matching sections are attached to
	// one act result.
	topSectionsPerAct = 10

	// scrollPageSize bounds a single Scroll RPC for the lookup operations.
	scrollPageSize = 500

	kindDocument = "document"
	kindSection  = "section"
)

// Store is the subset of *qdrant.Store the search engine depends on,
// declared here so tests can substitute a stub without pulling in a real
// Qdrant client. Return types are the concrete qdrant types rather than
// locally declared equivalents: Go interface satisfaction needs the named
// type to match exactly, and there is only one vector-store adapter in
// this module.
type Store interface {
	HybridQuery(ctx context.Context, name string, denseQ []float32, sparseQ embedding.SparseVector, expr filter.Expression, size, offset int, includeFields []string) ([]qdrant.HybridResult, error)
	Scroll(ctx context.Context, name string, expr filter.Expression, limit uint32, withPayload bool, offsetID string) (points []qdrant.ScrollPoint, nextOffset string, err error)
}

// Embedder computes the dense+sparse pair a query is run against, satisfied
// by *embedding.Service.
type Embedder interface {
	EmbedOne(ctx context.Context, text string) (embedding.Vector, error)
}

// Engine is the read-only query surface over one unified vector-store
// collection: section search, act search, and the non-ranked lookups the
// browsing surface needs. It never calls the upstream scrapers or the
// embedding provider's write path — only Embedder.EmbedOne for query text.
type Engine struct {
	store      Store
	embeddings Embedder
	collection string
}

// NewEngine builds an Engine against collection, the name C8's orchestrator
// upserted documents, sections, and schedules into.
func NewEngine(store Store, embeddings Embedder, collection string) *Engine {
	return &Engine{store: store, embeddings: embeddings, collection: collection}
}

// sectionFieldsWithoutText is the payload projection SearchSections
// requests when include_text=false: every field needed to render a result
// row except the body text itself, which is the expensive one to fetch
// and transmit for large documents.
var sectionFieldsWithoutText = []string{
	"id", "legislation_id", "title", "provision_type", "type", "category", "year", "number",
}

// SearchSections runs a hybrid query against section-kind records scoped
// by filters, returning up to size results starting at offset. Setting
// includeText to false projects away the body text for faster retrieval.
func (e *Engine) SearchSections(ctx context.Context, query string, f Filters, size, offset int, includeText bool) ([]legislation.Section, error) {
	expr, err := sectionFilter(f)
	if err != nil {
		return nil, fmt.Errorf("search: build section filter: %w", err)
	}

	vec, err := e.embeddings.EmbedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}

	var includeFields []string
	if !includeText {
		includeFields = sectionFieldsWithoutText
	}

	results, err := e.store.HybridQuery(ctx, e.collection, vec.Dense, vec.Sparse, expr, size, offset, includeFields)
	if err != nil {
		return nil, fmt.Errorf("search: hybrid query: %w", err)
	}
	normalizeScores(results)

	sections := make([]legislation.Section, 0, len(results))
	for _, r := range results {
		s, herr := hydrateSection(r.Payload)
		if herr != nil {
			slog.Warn("search: skipping malformed section payload", "id", r.ID, "error", herr)
			continue
		}
		sections = append(sections, s)
	}
	return sections, nil
}

// SearchActs searches sections, groups the candidates by parent document,
// keeps the top topSectionsPerAct per group, paginates the grouped acts,
// and hydrates each page entry's parent document from the same collection.
// A parent document missing from the lookup is logged and dropped rather
// than failing the whole call.
func (e *Engine) SearchActs(ctx context.Context, query string, f Filters, offset, limit int) (ActResults, error) {
	expr, err := sectionFilter(f)
	if err != nil {
		return ActResults{}, fmt.Errorf("search: build section filter: %w", err)
	}

	vec, err := e.embeddings.EmbedOne(ctx, query)
	if err != nil {
		return ActResults{}, fmt.Errorf("search: embed query: %w", err)
	}

	candidates, err := e.store.HybridQuery(ctx, e.collection, vec.Dense, vec.Sparse, expr, candidatePoolSize, 0,
		[]string{"legislation_id", "number", "provision_type"})
	if err != nil {
		return ActResults{}, fmt.Errorf("search: candidate section query: %w", err)
	}
	normalizeScores(candidates)

	byAct := lo.GroupBy(candidates, func(r qdrant.HybridResult) string {
		legID, _ := r.Payload["legislation_id"].(string)
		return legID
	})
	delete(byAct, "")

	groups := make([]actGroup, 0, len(byAct))
	for legID, results := range byAct {
		groups = append(groups, newActGroup(legID, results))
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].best > groups[j].best })

	total := len(groups)
	page := paginateGroups(groups, offset, limit)
	if len(page) == 0 {
		return ActResults{Results: []Act{}, Total: total, Offset: offset, Limit: limit}, nil
	}

	ids := make([]any, len(page))
	byID := make(map[string]actGroup, len(page))
	for i, g := range page {
		ids[i] = g.legislationID
		byID[g.legislationID] = g
	}

	docExpr, err := documentLookupFilter(ids, f.YearFrom, f.YearTo)
	if err != nil {
		return ActResults{}, fmt.Errorf("search: build parent lookup filter: %w", err)
	}
	points, _, err := e.store.Scroll(ctx, e.collection, docExpr, uint32(len(ids)), true, "")
	if err != nil {
		return ActResults{}, fmt.Errorf("search: scroll parent documents: %w", err)
	}

	docsByID := make(map[string]legislation.Document, len(points))
	for _, p := range points {
		doc, herr := hydrateDocument(p.Payload)
		if herr != nil {
			slog.Warn("search: skipping malformed document payload", "id", p.ID, "error", herr)
			continue
		}
		docsByID[string(doc.ID)] = doc
	}

	var missing []string
	results := make([]Act, 0, len(page))
	for _, g := range page {
		doc, ok := docsByID[g.legislationID]
		if !ok {
			missing = append(missing, g.legislationID)
			continue
		}
		results = append(results, Act{Document: doc, Sections: g.matches})
	}
	if len(missing) > 0 {
		slog.Warn("search: parent documents missing from legislation collection", "count", len(missing), "ids", missing)
	}

	return ActResults{Results: results, Total: total, Offset: offset, Limit: limit}, nil
}

// actGroup is one legislation_id's candidate sections, truncated to the
// top topSectionsPerAct by score, carrying the group's best score for
// act-level ranking.
type actGroup struct {
	legislationID string
	best          float64
	matches       []SectionMatch
}

func newActGroup(legislationID string, results []qdrant.HybridResult) actGroup {
	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topSectionsPerAct {
		results = results[:topSectionsPerAct]
	}

	matches := make([]SectionMatch, len(results))
	var best float64
	for i, r := range results {
		score := float64(r.Score)
		matches[i] = SectionMatch{
			Number:        formatNumber(r.Payload["number"]),
			ProvisionType: fmt.Sprint(r.Payload["provision_type"]),
			Score:         score,
		}
		if score > best {
			best = score
		}
	}
	return actGroup{legislationID: legislationID, best: best, matches: matches}
}

func paginateGroups(groups []actGroup, offset, limit int) []actGroup {
	if offset >= len(groups) || limit <= 0 {
		return nil
	}
	end := offset + limit
	if end > len(groups) {
		end = len(groups)
	}
	return groups[offset:end]
}

func documentLookupFilter(ids []any, yearFrom, yearTo int) (filter.Expression, error) {
	b := filter.NewExprBuilder().EQ("kind", kindDocument).In("id", ids...)
	if yearFrom > 0 {
		b.GTE("year", yearFrom)
	}
	if yearTo > 0 {
		b.LTE("year", yearTo)
	}
	return b.Build()
}

// normalizeScores rescales a hybrid_query result set to [0,1] by dividing
// every score by the set's maximum, guarding against an all-zero or empty
// set. This is distinct from the DBSF mean±3σ normalization the store
// already applies internally to fuse its two candidate lists — this pass
// exists so scores are comparable across calls at this layer, not within
// the store's own fusion step.
func normalizeScores(results []qdrant.HybridResult) {
	var max float32
	for _, r := range results {
		if r.Score > max {
			max = r.Score
		}
	}
	if max <= 0 {
		return
	}
	for i := range results {
		results[i].Score /= max
	}
}

// LookupDocument finds the exact document identified by type, year, and
// number, or nil if no such document has been ingested.
func (e *Engine) LookupDocument(ctx context.Context, typ legislation.Type, year, number int) (*legislation.Document, error) {
	expr, err := filter.NewExprBuilder().
		EQ("kind", kindDocument).
		EQ("type", string(typ)).
		EQ("year", year).
		EQ("number", number).
		Build()
	if err != nil {
		return nil, fmt.Errorf("search: build lookup filter: %w", err)
	}

	points, _, err := e.store.Scroll(ctx, e.collection, expr, 1, true, "")
	if err != nil {
		return nil, fmt.Errorf("search: lookup document: %w", err)
	}
	if len(points) == 0 {
		return nil, nil
	}

	doc, err := hydrateDocument(points[0].Payload)
	if err != nil {
		return nil, fmt.Errorf("search: hydrate document: %w", err)
	}
	return &doc, nil
}

// GetSections returns every section of parentID (up to limit, 0 meaning
// unbounded), sorted by provision number.
func (e *Engine) GetSections(ctx context.Context, parentID legislation.DocumentID, limit int) ([]legislation.Section, error) {
	expr, err := filter.NewExprBuilder().
		EQ("kind", kindSection).
		EQ("legislation_id", string(parentID)).
		Build()
	if err != nil {
		return nil, fmt.Errorf("search: build sections filter: %w", err)
	}

	sections, err := e.scrollSections(ctx, expr, limit)
	if err != nil {
		return nil, err
	}
	sort.Slice(sections, func(i, j int) bool { return sectionSortNumber(sections[i]) < sectionSortNumber(sections[j]) })
	return sections, nil
}

// GetFullText concatenates parentID's provisions into one string: sections
// first, then schedules if includeSchedules is set, each group ordered by
// its numeric suffix.
func (e *Engine) GetFullText(ctx context.Context, parentID legislation.DocumentID, includeSchedules bool) (string, error) {
	b := filter.NewExprBuilder().EQ("kind", kindSection).EQ("legislation_id", string(parentID))
	if includeSchedules {
		b.In("provision_type", string(legislation.ProvisionSection), string(legislation.ProvisionSchedule))
	} else {
		b.EQ("provision_type", string(legislation.ProvisionSection))
	}
	expr, err := b.Build()
	if err != nil {
		return "", fmt.Errorf("search: build full-text filter: %w", err)
	}

	sections, err := e.scrollSections(ctx, expr, 0)
	if err != nil {
		return "", err
	}

	sort.Slice(sections, func(i, j int) bool {
		pi, pj := sections[i].ProvisionType, sections[j].ProvisionType
		if pi != pj {
			return pi == legislation.ProvisionSection
		}
		return sectionSortNumber(sections[i]) < sectionSortNumber(sections[j])
	})

	var text strings.Builder
	for _, s := range sections {
		if text.Len() > 0 {
			text.WriteString("\n\n")
		}
		text.WriteString(s.Text)
	}
	return text.String(), nil
}

// scrollSections pages through expr until the store is exhausted or limit
// sections have been collected (limit <= 0 meaning unbounded).
func (e *Engine) scrollSections(ctx context.Context, expr filter.Expression, limit int) ([]legislation.Section, error) {
	var sections []legislation.Section
	offset := ""
	for {
		pageSize := scrollPageSize
		if limit > 0 {
			remaining := limit - len(sections)
			if remaining <= 0 {
				break
			}
			if remaining < pageSize {
				pageSize = remaining
			}
		}

		points, next, err := e.store.Scroll(ctx, e.collection, expr, uint32(pageSize), true, offset)
		if err != nil {
			return nil, fmt.Errorf("search: scroll sections: %w", err)
		}
		for _, p := range points {
			s, herr := hydrateSection(p.Payload)
			if herr != nil {
				slog.Warn("search: skipping malformed section payload", "id", p.ID, "error", herr)
				continue
			}
			sections = append(sections, s)
		}

		if next == "" {
			break
		}
		offset = next
	}
	return sections, nil
}

func sectionSortNumber(s legislation.Section) int {
	if s.Number != nil {
		return *s.Number
	}
	if n, ok := s.NumberFromID(); ok {
		return n
	}
	return 0
}
