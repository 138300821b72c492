// Package pipeline wires the enumeration, parsing, embedding, and
// vector-store components into the two ingest runs the scheduling surface
// drives: a small daily sweep of the current and previous legislative year,
// and an occasional full historical sweep.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"
	"time"

	"github.com/i-dot-ai/lex/ai/media/document/id"
	"github.com/i-dot-ai/lex/ai/model/embedding"
	"github.com/i-dot-ai/lex/ai/providers/vectorstores/qdrant"
	"github.com/i-dot-ai/lex/checkpoint"
	"github.com/i-dot-ai/lex/flow"
	"github.com/i-dot-ai/lex/httpclient"
	"github.com/i-dot-ai/lex/legislation"
	"github.com/i-dot-ai/lex/legislation/parse"
	"github.com/i-dot-ai/lex/legislation/pdffallback"
	"github.com/i-dot-ai/lex/obslog"
	"github.com/i-dot-ai/lex/xmltree"
)

// DefaultRateLimitThreshold is the number of consecutive rate-limit
// failures ingestLegislation tolerates before tripping its circuit: flush
// the pending batch, persist the checkpoint, and stop the run rather than
// grind through an upstream outage one exponential backoff at a time.
const DefaultRateLimitThreshold = 50

const (
	// CollectionLegislation is the Qdrant collection every parsed
	// document, section, and schedule is upserted into. Stage 1 keeps a
	// single unified collection rather than one per legislation.Type:
	// search always filters by type/category as a query-time facet
	// (C10), not as a storage partition.
	CollectionLegislation = "legislation"

	// CollectionAmendments holds the change-manifest records
	// collectAmendments derives from each document's own Commentary
	// elements while ingestLegislation is already fetching and parsing it
	// — amendments get no separate crawl of their own. C9's RefreshPlanner
	// scrolls this collection to decide which documents need rescraping.
	CollectionAmendments = "amendments"

	// DefaultBatchSize matches the source pipeline's own batching: small
	// enough that a mid-batch failure loses little work, large enough
	// that the dense-embedding endpoint sees a worthwhile fan-out.
	DefaultBatchSize = 10

	// firstHistoricalYear is the earliest year RunFull sweeps back to
	// absent an explicit override; no UK document type predates it.
	firstHistoricalYear = 1235
)

// Config tunes one Orchestrator. Zero values fall back to sane defaults.
type Config struct {
	// CheckpointDir is the directory checkpoint.Manager persists its
	// per-combination-key JSON state files under.
	CheckpointDir string
	// BatchSize is how many parsed documents accumulate before a single
	// embed+upsert round-trip. Defaults to DefaultBatchSize.
	BatchSize int
	// EmbedWorkers bounds the embedding.Service's concurrent dense-model
	// calls within one batch.
	EmbedWorkers int
	// DailyLimit caps how many documents RunDaily will enumerate in
	// total, 0 meaning unlimited. RunFull ignores this field.
	DailyLimit int
	// RateLimitThreshold is the number of consecutive rate-limit failures
	// that trips ingestLegislation's circuit. Defaults to
	// DefaultRateLimitThreshold.
	RateLimitThreshold int
	// Metrics receives per-batch counts as the run progresses. A nil
	// Metrics falls back to obslog.NopSink.
	Metrics obslog.Sink
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.EmbedWorkers <= 0 {
		c.EmbedWorkers = 1
	}
	if c.RateLimitThreshold <= 0 {
		c.RateLimitThreshold = DefaultRateLimitThreshold
	}
	if c.Metrics == nil {
		c.Metrics = obslog.NopSink{}
	}
	return c
}

// Orchestrator drives one Stage 1 ingest run: enumerate source URLs, parse
// each document (falling back to native PDF text extraction, not OCR, when
// the XML body is missing),
// embed the resulting text in batches, and upsert the embedded points into
// the vector store, checkpointing progress so a resumed run never
// re-fetches or re-embeds a URL it already processed.
type Orchestrator struct {
	cfg        Config
	fetcher    legislation.Fetcher
	embeddings *embedding.Service
	store      *qdrant.Store
	ids        id.Generator
}

// NewOrchestrator builds an Orchestrator. fetcher is typically
// httpclient.Client, already wrapped with C1's cache, rate limiter, and
// retry middleware.
func NewOrchestrator(cfg Config, fetcher legislation.Fetcher, embeddings *embedding.Service, store *qdrant.Store, ids id.Generator) *Orchestrator {
	return &Orchestrator{cfg: cfg.withDefaults(), fetcher: fetcher, embeddings: embeddings, store: store, ids: ids}
}

// SourceStats summarizes one source's ingest run.
type SourceStats struct {
	Source      string
	Upserted    int
	Failed      int
	Processed   int
	// RateLimited is set when the run stopped early because Config.RateLimitThreshold
	// consecutive rate-limit failures tripped the circuit in ingestLegislation,
	// rather than because the source was exhausted.
	RateLimited bool
}

// RunDaily ingests the current and previous legislative year across every
// Stage 1 source, concurrently, bounded by Config.DailyLimit.
func (o *Orchestrator) RunDaily(ctx context.Context, now time.Time) ([]SourceStats, error) {
	years := []int{now.Year() - 1, now.Year()}
	return o.runStageOne(ctx, years, o.cfg.DailyLimit)
}

// RunFull sweeps every year from firstHistoricalYear (or from, if > 0) to
// the current year across every Stage 1 source, concurrently and
// unbounded.
func (o *Orchestrator) RunFull(ctx context.Context, now time.Time, from int) ([]SourceStats, error) {
	if from <= 0 {
		from = firstHistoricalYear
	}
	years := make([]int, 0, now.Year()-from+1)
	for y := from; y <= now.Year(); y++ {
		years = append(years, y)
	}
	return o.runStageOne(ctx, years, 0)
}

// stageOneInput is the shared input every Stage 1 source's Processor runs
// against: the year range this run covers and an optional total-document
// cap.
type stageOneInput struct {
	years []int
	limit int
}

// runStageOne fans the unified-legislation source out across a
// flow.Parallel node. Case law and amendment-led refresh (C9) are separate
// sources that plug into the same Parallel node once built; for now a
// single processor still exercises the concurrent-dispatch/aggregate
// machinery rather than leaving it an unused abstraction.
func (o *Orchestrator) runStageOne(ctx context.Context, years []int, limit int) ([]SourceStats, error) {
	parallel := (&flow.Parallel[stageOneInput, []SourceStats]{}).
		AddProcessors(
			flow.Processor[stageOneInput, any](func(ctx context.Context, in stageOneInput) (any, error) {
				stats, err := Monitor(ctx, "Ingest legislation", func(ctx context.Context) (SourceStats, error) {
					return o.ingestLegislation(ctx, in.years, in.limit)
				})
				return stats, err
			}),
		).
		WithWaitAll().
		WithContinueOnError().
		WithRequiredSuccesses(1).
		WithAggregator(func(_ context.Context, results []any) ([]SourceStats, error) {
			stats := make([]SourceStats, 0, len(results))
			for _, r := range results {
				if s, ok := r.(SourceStats); ok {
					stats = append(stats, s)
				}
			}
			return stats, nil
		})

	return parallel.Run(ctx, stageOneInput{years: years, limit: limit})
}

// ingestLegislation enumerates every (type, year) combination in years,
// parses each document (falling back to native PDF text extraction when
// the XML body is absent), embeds parsed text in batches of Config.BatchSize, and
// upserts the resulting points into CollectionLegislation.
func (o *Orchestrator) ingestLegislation(ctx context.Context, years []int, limit int) (SourceStats, error) {
	stats := SourceStats{Source: "legislation"}

	key := checkpoint.Key("legislation", years, nil)
	cp, err := checkpoint.Open(o.cfg.CheckpointDir, key)
	if err != nil {
		return stats, fmt.Errorf("pipeline: open checkpoint %s: %w", key, err)
	}
	defer func() {
		if cerr := cp.Close(); cerr != nil {
			slog.Error("pipeline: checkpoint close failed", "key", key, "error", cerr)
		}
	}()

	dimensions := o.embeddings.DenseDimensions(ctx)
	if dimensions <= 0 {
		return stats, fmt.Errorf("pipeline: could not determine dense embedding dimensions")
	}
	if err := o.store.EnsureCollection(ctx, CollectionLegislation, uint64(dimensions)); err != nil {
		return stats, fmt.Errorf("pipeline: ensure collection: %w", err)
	}
	if err := o.store.EnsureCollection(ctx, CollectionAmendments, uint64(dimensions)); err != nil {
		return stats, fmt.Errorf("pipeline: ensure amendments collection: %w", err)
	}

	urls := legislation.Enumerate(ctx, o.fetcher, legislation.AllTypes(), years, limit, cp)

	var batch []fetchedDocument
	flushBatch := func() {
		if len(batch) == 0 {
			return
		}
		upserted, upsertErr := o.embedAndUpsertBatch(ctx, CollectionLegislation, batch)
		stats.Upserted += upserted

		if amended, aerr := o.embedAndUpsertAmendments(ctx, batch); aerr != nil {
			slog.Error("pipeline: amendment upsert failed", "error", aerr)
		} else {
			stats.Upserted += amended
		}

		failed := 0
		for _, d := range batch {
			switch {
			case d.err != nil:
				stats.Failed++
				failed++
				cp.MarkFailed(d.url, d.err)
			case upsertErr != nil:
				stats.Failed++
				failed++
				cp.MarkFailed(d.url, upsertErr)
			default:
				cp.MarkProcessed(d.url, map[string]any{"document_id": string(d.document.ID)})
			}
		}
		o.cfg.Metrics.DocumentsUpserted(stats.Source, upserted)
		o.cfg.Metrics.DocumentsFailed(stats.Source, failed)
		batch = batch[:0]
		debug.FreeOSMemory()
	}

	consecutiveRateLimited := 0
	for url := range urls {
		if ctx.Err() != nil {
			break
		}
		if cp.IsProcessed(url) {
			continue
		}
		stats.Processed++
		o.cfg.Metrics.DocumentsProcessed(stats.Source, 1)

		doc := o.fetchAndParse(ctx, url)
		if isRateLimitErr(doc.err) {
			consecutiveRateLimited++
		} else {
			consecutiveRateLimited = 0
		}
		batch = append(batch, doc)
		if len(batch) >= o.cfg.BatchSize {
			flushBatch()
		}

		if consecutiveRateLimited >= o.cfg.RateLimitThreshold {
			flushBatch()
			stats.RateLimited = true
			slog.Warn("pipeline status rate_limited: tripping circuit after consecutive rate-limit failures",
				"source", stats.Source, "consecutive_rate_limited", consecutiveRateLimited,
				"threshold", o.cfg.RateLimitThreshold, "processed", stats.Processed)
			return stats, nil
		}
	}
	flushBatch()

	// Every combination whose channel drained without the limit or a
	// cancellation cutting it short is now fully processed; mark it so a
	// resumed run skips straight past it without a single listing-page request.
	if limit <= 0 && ctx.Err() == nil {
		for _, year := range years {
			for _, typ := range legislation.AllTypes() {
				if !typ.ActiveInYear(year) {
					continue
				}
				cp.MarkCombinationComplete(checkpoint.CombinationKey(string(typ), year))
			}
		}
	}

	return stats, nil
}

// isRateLimitErr reports whether err originates from C1's rate limiter or
// circuit breaker, as opposed to an ordinary fetch/parse failure.
func isRateLimitErr(err error) bool {
	return errors.Is(err, httpclient.ErrRateLimited) || errors.Is(err, httpclient.ErrCircuitOpen)
}

// fetchedDocument carries either a successfully parsed document+sections or
// the error encountered fetching/parsing it, so the batch flush can both
// embed the successes and checkpoint the failures.
type fetchedDocument struct {
	url        string
	document   legislation.Document
	sections   []legislation.Section
	amendments []legislation.Amendment
	err        error
}

// fetchAndParse retrieves url's XML body and parses it via the unified
// dialect parser, falling back to native text extraction (no OCR) from the
// authority site's PDF rendition when the document has no XML body at all.
func (o *Orchestrator) fetchAndParse(ctx context.Context, url string) fetchedDocument {
	body, err := o.fetcher.Get(ctx, url)
	if err != nil {
		return fetchedDocument{url: url, err: fmt.Errorf("fetch: %w", err)}
	}

	typ, year, number, idErr := pdffallback.ParseLegislationID(bareLegislationID(url))
	legislationID := legislation.DocumentID(fmt.Sprintf("%s/%d/%d", typ, year, number))

	root, err := xmltree.Parse(bytes.NewReader(body))
	if err == nil {
		result, perr := parse.Parse(root, legislationID)
		if perr == nil {
			provisions := append(append([]legislation.Section{}, result.Sections...), result.Schedules...)
			return fetchedDocument{url: url, document: result.Document, sections: provisions, amendments: result.Amendments}
		}
		if perr != parse.ErrNoBody {
			return fetchedDocument{url: url, err: fmt.Errorf("parse: %w", perr)}
		}
	}

	if idErr != nil {
		return fetchedDocument{url: url, err: fmt.Errorf("pdf fallback: %w", idErr)}
	}

	pdfURL, err := pdffallback.FindPDFURL(ctx, o.fetcher, string(legislationID))
	if err != nil {
		return fetchedDocument{url: url, err: fmt.Errorf("pdf fallback: find pdf: %w", err)}
	}
	pdfBody, err := o.fetcher.Get(ctx, pdfURL)
	if err != nil {
		return fetchedDocument{url: url, err: fmt.Errorf("pdf fallback: fetch pdf: %w", err)}
	}
	text, err := pdffallback.ExtractTextFromBytes(pdfBody)
	if err != nil {
		return fetchedDocument{url: url, err: fmt.Errorf("pdf fallback: extract text: %w", err)}
	}
	sections := pdffallback.SplitSections(text)
	document, parsedSections := pdffallback.BuildDocument(string(legislationID), pdfURL, sections, time.Now())
	return fetchedDocument{url: url, document: document, sections: parsedSections}
}

// embedAndUpsertBatch embeds the document body (and every section body) of
// every successfully parsed item in batch, builds one Point per embedded
// text, and upserts them in a single call. Items that failed fetch/parse
// contribute no text and are left for the caller to checkpoint as failed;
// a non-nil error return means the embed or upsert call itself failed, in
// which case the caller checkpoints every item in batch as failed so the
// whole batch is retried on the next run.
func (o *Orchestrator) embedAndUpsertBatch(ctx context.Context, collection string, batch []fetchedDocument) (upserted int, err error) {
	type unit struct {
		name    string
		text    string
		payload map[string]any
	}
	var units []unit
	for _, d := range batch {
		if d.err != nil {
			continue
		}
		units = append(units, unit{
			name:    string(d.document.ID),
			text:    d.document.Title + "\n" + d.document.Description,
			payload: documentPayload(d.document),
		})
		for _, s := range d.sections {
			units = append(units, unit{
				name:    s.ID,
				text:    s.Text,
				payload: sectionPayload(s),
			})
		}
	}
	if len(units) == 0 {
		return 0, nil
	}

	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.text
	}

	vectors, err := o.embeddings.EmbedBatch(ctx, texts, o.cfg.EmbedWorkers)
	if err != nil {
		return 0, fmt.Errorf("embed batch: %w", err)
	}

	points := make([]qdrant.Point, 0, len(units))
	for i, u := range units {
		if vectors[i].IsZero() {
			continue
		}
		pointID, err := o.ids.Generate(ctx, u.name)
		if err != nil {
			slog.Error("pipeline: point id generation failed", "name", u.name, "error", err)
			continue
		}
		points = append(points, qdrant.Point{ID: pointID, Vector: vectors[i], Payload: u.payload})
	}
	if len(points) == 0 {
		return 0, nil
	}

	if err := o.store.Upsert(ctx, collection, points); err != nil {
		return 0, fmt.Errorf("upsert batch: %w", err)
	}
	return len(points), nil
}

// embedAndUpsertAmendments embeds a short descriptive text per Amendment
// collected across batch and upserts the points into CollectionAmendments,
// so each amendment is both a searchable record in its own right and the
// change-manifest row C9's RefreshPlanner later scrolls.
func (o *Orchestrator) embedAndUpsertAmendments(ctx context.Context, batch []fetchedDocument) (upserted int, err error) {
	type unit struct {
		name    string
		text    string
		payload map[string]any
	}
	var units []unit
	for _, d := range batch {
		if d.err != nil {
			continue
		}
		for _, a := range d.amendments {
			units = append(units, unit{
				name:    a.ID,
				text:    amendmentText(a),
				payload: amendmentPayload(a),
			})
		}
	}
	if len(units) == 0 {
		return 0, nil
	}

	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.text
	}

	vectors, err := o.embeddings.EmbedBatch(ctx, texts, o.cfg.EmbedWorkers)
	if err != nil {
		return 0, fmt.Errorf("embed amendments batch: %w", err)
	}

	points := make([]qdrant.Point, 0, len(units))
	for i, u := range units {
		if vectors[i].IsZero() {
			continue
		}
		pointID, err := o.ids.Generate(ctx, u.name)
		if err != nil {
			slog.Error("pipeline: amendment point id generation failed", "name", u.name, "error", err)
			continue
		}
		points = append(points, qdrant.Point{ID: pointID, Vector: vectors[i], Payload: u.payload})
	}
	if len(points) == 0 {
		return 0, nil
	}

	if err := o.store.Upsert(ctx, CollectionAmendments, points); err != nil {
		return 0, fmt.Errorf("upsert amendments batch: %w", err)
	}
	return len(points), nil
}

func amendmentText(a legislation.Amendment) string {
	return fmt.Sprintf("%s %s %s in %d", a.AffectingDocumentID, a.TypeOfEffect, a.ChangedDocumentID, a.AffectingYear)
}

func amendmentPayload(a legislation.Amendment) map[string]any {
	return map[string]any{
		"id":                      a.ID,
		"changed_document_id":     string(a.ChangedDocumentID),
		"changed_provision_url":   a.ChangedProvisionURL,
		"affecting_document_id":   string(a.AffectingDocumentID),
		"affecting_provision_url": a.AffectingProvisionURL,
		"type_of_effect":          string(a.TypeOfEffect),
		"affecting_year":          a.AffectingYear,
		"kind":                    "amendment",
	}
}

// RescrapeURLs re-fetches, re-parses, and re-embeds each of urls through
// exactly the same fetchAndParse/embedAndUpsertBatch path ingestLegislation
// uses, upserting the result into CollectionLegislation. It carries no
// checkpoint bookkeeping of its own: callers that already know which urls
// need a refresh (C9's amendment-led RefreshPlanner) drive their own
// staleness tracking and call this once per batch of ids worth rescraping.
func (o *Orchestrator) RescrapeURLs(ctx context.Context, urls []string) (upserted int, err error) {
	if len(urls) == 0 {
		return 0, nil
	}

	batch := make([]fetchedDocument, 0, len(urls))
	for _, url := range urls {
		batch = append(batch, o.fetchAndParse(ctx, url))
	}

	upserted, err = o.embedAndUpsertBatch(ctx, CollectionLegislation, batch)

	var failed []string
	for _, d := range batch {
		if d.err != nil {
			failed = append(failed, d.url)
		}
	}
	if len(failed) > 0 {
		slog.Warn("pipeline: rescrape could not fetch/parse some urls", "count", len(failed), "urls", failed)
	}
	return upserted, err
}

// bareLegislationID strips the authority host and /data.xml suffix from a
// canonical enumeration URL, leaving the "type/year/number" form
// pdffallback.ParseLegislationID and FindPDFURL expect.
func bareLegislationID(url string) string {
	if i := strings.Index(url, "legislation.gov.uk/"); i != -1 {
		url = url[i+len("legislation.gov.uk/"):]
	}
	return strings.TrimSuffix(url, "/data.xml")
}

func documentPayload(d legislation.Document) map[string]any {
	category, conflict := d.ResolveCategory()
	if conflict {
		slog.Warn("document category conflicts with type-derived category",
			"id", d.ID, "explicit_category", d.Category, "type", d.Type, "resolved_category", category)
	}
	payload := map[string]any{
		"id":          string(d.ID),
		"uri":         d.URI,
		"title":       d.Title,
		"description": d.Description,
		"category":    string(category),
		"type":        string(d.Type),
		"year":        d.Year,
		"number":      d.Number,
		"status":      string(d.Status),
		"kind":        "document",
	}
	if d.ModifiedDate != nil {
		payload["modified_date"] = d.ModifiedDate.Format(time.RFC3339)
	}
	return payload
}

func sectionPayload(s legislation.Section) map[string]any {
	payload := map[string]any{
		"id":             s.ID,
		"legislation_id": string(s.LegislationID),
		"title":          s.Title,
		"text":           s.Text,
		"provision_type": string(s.ProvisionType),
		"kind":           "section",
	}
	if typ := s.ParentType(); typ != "" {
		payload["type"] = string(typ)
		payload["category"] = string(legislation.CategoryFor(typ))
	}
	if year := s.ParentYear(); year != 0 {
		payload["year"] = year
	}
	if s.Number != nil {
		payload["number"] = *s.Number
	}
	return payload
}
