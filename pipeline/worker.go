package pipeline

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// exitFunc terminates the process once a source trips its rate-limit
// circuit; a package var so tests can swap in a non-terminating stub.
var exitFunc = os.Exit

// DailyWorker is a core/worker.BatchWorker that runs one Orchestrator.RunDaily
// sweep per invocation, satisfying the same Work/Context/Done surface the
// rest of the scheduling stack (core/job, core/trigger) drives every other
// job through.
type DailyWorker struct {
	orchestrator *Orchestrator
	ctx          context.Context
}

// NewDailyWorker wraps orchestrator for a CronTrigger-driven daily sweep.
func NewDailyWorker(orchestrator *Orchestrator) *DailyWorker {
	return &DailyWorker{orchestrator: orchestrator}
}

func (w *DailyWorker) Context(ctx context.Context) {
	w.ctx = ctx
}

func (w *DailyWorker) Done() <-chan struct{} {
	return w.ctx.Done()
}

// Work runs one RunDaily sweep, logging per-source stats. A cron schedule
// calls this repeatedly.
func (w *DailyWorker) Work() {
	stats, err := Monitor(w.ctx, "Daily ingest run", func(ctx context.Context) ([]SourceStats, error) {
		return w.orchestrator.RunDaily(ctx, time.Now())
	})
	if err != nil {
		slog.Error("pipeline: daily ingest run failed", "error", err)
	}
	for _, s := range stats {
		slog.Info("pipeline: daily ingest source done",
			"source", s.Source, "processed", s.Processed, "upserted", s.Upserted, "failed", s.Failed)
		if s.RateLimited {
			slog.Warn("pipeline: exiting cleanly after rate-limit circuit trip", "source", s.Source)
			exitFunc(0)
		}
	}
}

// FullWorker is a core/worker.BatchWorker that runs one Orchestrator.RunFull
// historical sweep per invocation, intended for a far sparser cron schedule
// than DailyWorker's (weekly or monthly rather than daily).
type FullWorker struct {
	orchestrator *Orchestrator
	from         int
	ctx          context.Context
}

// NewFullWorker wraps orchestrator for a CronTrigger-driven full sweep
// starting at from (0 meaning the earliest year Orchestrator knows about).
func NewFullWorker(orchestrator *Orchestrator, from int) *FullWorker {
	return &FullWorker{orchestrator: orchestrator, from: from}
}

func (w *FullWorker) Context(ctx context.Context) {
	w.ctx = ctx
}

func (w *FullWorker) Done() <-chan struct{} {
	return w.ctx.Done()
}

func (w *FullWorker) Work() {
	stats, err := Monitor(w.ctx, "Full ingest run", func(ctx context.Context) ([]SourceStats, error) {
		return w.orchestrator.RunFull(ctx, time.Now(), w.from)
	})
	if err != nil {
		slog.Error("pipeline: full ingest run failed", "error", err)
	}
	for _, s := range stats {
		slog.Info("pipeline: full ingest source done",
			"source", s.Source, "processed", s.Processed, "upserted", s.Upserted, "failed", s.Failed)
		if s.RateLimited {
			slog.Warn("pipeline: exiting cleanly after rate-limit circuit trip", "source", s.Source)
			exitFunc(0)
		}
	}
}
