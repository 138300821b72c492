// Command search runs one hybrid query against an already-ingested
// collection and prints the result as JSON. The REST/MCP surface a real
// deployment would front this with is a separate adapter, not part of this
// module; this binary exercises search.Engine and search.CachedEngine
// directly. Connection settings come from the environment (config.Load);
// the query itself is a flag since it varies per invocation.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/qdrant/go-client/qdrant"

	"github.com/i-dot-ai/lex/ai/model/embedding"
	"github.com/i-dot-ai/lex/ai/providers/models/azure"
	qdrantstore "github.com/i-dot-ai/lex/ai/providers/vectorstores/qdrant"
	"github.com/i-dot-ai/lex/ai/tokenizer"
	"github.com/i-dot-ai/lex/cache"
	"github.com/i-dot-ai/lex/config"
	"github.com/i-dot-ai/lex/httpclient"
	"github.com/i-dot-ai/lex/legislation"
	"github.com/i-dot-ai/lex/pipeline"
	"github.com/i-dot-ai/lex/search"
)

type queryFlags struct {
	mode     string
	query    string
	types    string
	category string
	yearFrom int
	yearTo   int
	size     int
	offset   int
}

func main() {
	var q queryFlags
	flag.StringVar(&q.mode, "mode", "sections", `query mode: "sections" or "acts"`)
	flag.StringVar(&q.query, "q", "", "query text")
	flag.StringVar(&q.types, "types", "", "comma-separated legislation.Type filter, e.g. ukpga,uksi")
	flag.StringVar(&q.category, "category", "", "legislation.Category filter")
	flag.IntVar(&q.yearFrom, "year-from", 0, "inclusive lower year bound")
	flag.IntVar(&q.yearTo, "year-to", 0, "inclusive upper year bound")
	flag.IntVar(&q.size, "size", 10, "page size")
	flag.IntVar(&q.offset, "offset", 0, "page offset")
	flag.Parse()

	if q.query == "" {
		fmt.Fprintln(os.Stderr, "search: -q is required")
		os.Exit(2)
	}

	if err := run(context.Background(), config.Load(), q); err != nil {
		slog.Error("search: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, q queryFlags) error {
	httpClient, err := httpclient.New(httpclient.Config{})
	if err != nil {
		return fmt.Errorf("build http client: %w", err)
	}

	denseModel, err := azure.NewEmbeddingModel(httpClient, azure.Config{
		Endpoint:   cfg.AzureEndpoint,
		APIKey:     cfg.AzureAPIKey,
		Deployment: cfg.AzureDeployment,
	})
	if err != nil {
		return fmt.Errorf("build azure embedding model: %w", err)
	}
	embedService, err := embedding.NewService(denseModel, embedding.NewSparseEncoder(tokenizer.NewTiktokenWithCL100KBase()))
	if err != nil {
		return fmt.Errorf("build embedding service: %w", err)
	}

	qdrantClient, err := qdrant.NewClient(&qdrant.Config{Host: cfg.QdrantHost, Port: cfg.QdrantPort})
	if err != nil {
		return fmt.Errorf("connect qdrant: %w", err)
	}
	store, err := qdrantstore.NewStore(qdrantClient)
	if err != nil {
		return fmt.Errorf("build qdrant store: %w", err)
	}

	engine := search.NewEngine(store, embedService, pipeline.CollectionLegislation)
	cached := search.NewCachedEngine(engine, buildCache(cfg), cfg.CacheTTL)

	filters := search.Filters{
		Category: legislation.Category(q.category),
		YearFrom: q.yearFrom,
		YearTo:   q.yearTo,
	}
	if q.types != "" {
		for _, t := range strings.Split(q.types, ",") {
			filters.Types = append(filters.Types, legislation.Type(strings.TrimSpace(t)))
		}
	}

	var out any
	switch q.mode {
	case "acts":
		out, err = cached.SearchActs(ctx, q.query, filters, q.offset, q.size)
	case "sections":
		out, err = cached.SearchSections(ctx, q.query, filters, q.size, q.offset, true)
	default:
		return fmt.Errorf("unknown mode %q", q.mode)
	}
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// buildCache wires a RedisCache when an address is configured, falling
// back to a bounded in-process LRU for a single-instance deployment with
// no Redis.
func buildCache(cfg config.Config) search.ResultCache {
	if cfg.RedisAddr == "" {
		return cache.NewLRUCache(1000)
	}
	return cache.NewRedisCacheFromAddr(cfg.RedisAddr)
}
