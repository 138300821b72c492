package amendments

import (
	"context"
	"log/slog"
	"time"

	"github.com/i-dot-ai/lex/obslog"
	"github.com/i-dot-ai/lex/pipeline"
)

// RefreshWorker is a core/worker.BatchWorker that runs one Planner.Refresh
// pass per invocation, intended for a schedule offset from the ingest
// sweep so it always sees a batch's worth of freshly upserted amendments.
type RefreshWorker struct {
	planner *Planner
	force   bool
	metrics obslog.Sink
	ctx     context.Context
}

// NewRefreshWorker wraps planner for a CronTrigger-driven refresh pass.
// force is passed straight through to Refresh on every run. A nil metrics
// falls back to obslog.NopSink.
func NewRefreshWorker(planner *Planner, force bool, metrics obslog.Sink) *RefreshWorker {
	if metrics == nil {
		metrics = obslog.NopSink{}
	}
	return &RefreshWorker{planner: planner, force: force, metrics: metrics}
}

func (w *RefreshWorker) Context(ctx context.Context) {
	w.ctx = ctx
}

func (w *RefreshWorker) Done() <-chan struct{} {
	return w.ctx.Done()
}

func (w *RefreshWorker) Work() {
	stats, err := pipeline.Monitor(w.ctx, "Amendment refresh", func(ctx context.Context) (Stats, error) {
		return w.planner.Refresh(ctx, time.Now(), w.force)
	})
	if err != nil {
		slog.Error("amendments: refresh run failed", "error", err)
		return
	}
	w.metrics.AmendmentsRescraped(stats.Rescraped)
	slog.Info("amendments: refresh run done",
		"scanned", stats.AmendmentsScanned, "changed_documents", stats.ChangedDocuments,
		"stale", stats.Stale, "missing", stats.Missing, "rescraped", stats.Rescraped)
}
