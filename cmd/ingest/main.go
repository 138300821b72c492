// Command ingest runs the legislation ingest and amendment-refresh jobs on
// a cron schedule: a daily sweep of the current and previous legislative
// year, and a refresh pass that rescrapes documents the amendment manifest
// marks as stale. Every setting comes from the environment; see
// config.Load for the full list and its defaults.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/qdrant/go-client/qdrant"

	"github.com/i-dot-ai/lex/ai/media/document/id"
	"github.com/i-dot-ai/lex/ai/model/embedding"
	"github.com/i-dot-ai/lex/ai/providers/models/azure"
	qdrantstore "github.com/i-dot-ai/lex/ai/providers/vectorstores/qdrant"
	"github.com/i-dot-ai/lex/ai/tokenizer"
	"github.com/i-dot-ai/lex/amendments"
	"github.com/i-dot-ai/lex/config"
	"github.com/i-dot-ai/lex/core/job"
	"github.com/i-dot-ai/lex/core/lynx"
	"github.com/i-dot-ai/lex/core/trigger"
	"github.com/i-dot-ai/lex/core/worker"
	"github.com/i-dot-ai/lex/httpclient"
	"github.com/i-dot-ai/lex/obslog"
	"github.com/i-dot-ai/lex/pipeline"
)

func main() {
	slog.SetDefault(obslog.NewLogger(slog.LevelInfo))
	metrics := obslog.NewPromSink()
	pipeline.SetMetrics(metrics)

	if err := run(config.Load(), metrics); err != nil {
		slog.Error("ingest: fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, metrics obslog.Sink) error {
	httpClient, err := httpclient.New(httpclient.Config{
		EnableCache: true,
		CacheDir:    cfg.CacheDir,
	})
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

	ctx := context.Background()
	dims := uint64(embedService.DenseDimensions(ctx))
	if err := store.EnsureCollection(ctx, pipeline.CollectionLegislation, dims); err != nil {
		return fmt.Errorf("ensure legislation collection: %w", err)
	}
	if err := store.EnsureCollection(ctx, pipeline.CollectionAmendments, dims); err != nil {
		return fmt.Errorf("ensure amendments collection: %w", err)
	}

	orchestrator := pipeline.NewOrchestrator(pipeline.Config{
		CheckpointDir:      cfg.CheckpointDir,
		BatchSize:          cfg.BatchSize,
		EmbedWorkers:       cfg.EmbedWorkers,
		RateLimitThreshold: cfg.RateLimitThreshold,
		Metrics:            metrics,
	}, httpClient, embedService, store, id.NewSha256Generator(nil))

	planner := amendments.NewPlanner(store, orchestrator, amendments.Collections{
		Amendments:  pipeline.CollectionAmendments,
		Legislation: pipeline.CollectionLegislation,
	}, cfg.RefreshLookback)

	dailyJob := job.NewBatchJob(&job.BatchJobOptions{
		Trigger: trigger.NewCronTrigger(&trigger.CronTriggerOptions{Spec: cfg.DailyCronSpec}),
		Workers: []worker.BatchWorker{pipeline.NewDailyWorker(orchestrator)},
	})
	refreshJob := job.NewBatchJob(&job.BatchJobOptions{
		Trigger: trigger.NewCronTrigger(&trigger.CronTriggerOptions{Spec: cfg.RefreshCronSpec}),
		Workers: []worker.BatchWorker{amendments.NewRefreshWorker(planner, false, metrics)},
	})

	app := lynx.New(&lynx.Options{Jobs: []job.Job{dailyJob, refreshJob}})
	return app.Run()
}
