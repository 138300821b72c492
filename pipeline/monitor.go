package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/i-dot-ai/lex/obslog"
)

// monitorMetrics is the Sink Monitor reports stage duration to. A package
// var rather than a parameter on every call site keeps Monitor's call
// signature matched to the stage functions it wraps; SetMetrics overrides
// it once, typically from a cmd/ main.
var monitorMetrics obslog.Sink = obslog.NopSink{}

// SetMetrics points every future Monitor call's duration observation at
// sink. Call once during startup, before any job is started.
func SetMetrics(sink obslog.Sink) {
	if sink != nil {
		monitorMetrics = sink
	}
}

// Monitor runs fn, logging start/stop banners and the elapsed duration in
// the same bracketed style core/lynx.Lynx logs its own start/wait/stop
// transitions, plus the error on failure, and recording the duration
// against the configured obslog.Sink. Stage functions that report
// progress (ingestLegislation, RunDaily, RunFull, amendment refresh) wrap
// in this rather than writing their own ad hoc banner lines.
func Monitor[T any](ctx context.Context, stage string, fn func(context.Context) (T, error)) (T, error) {
	slog.Info("-----------------")
	slog.Info("-------" + stage + " Start--------")
	slog.Info("-----------------")

	started := time.Now()
	result, err := fn(ctx)
	elapsed := time.Since(started)
	monitorMetrics.StageDuration(stage, elapsed.Seconds())

	if err != nil {
		slog.Error("-------"+stage+" Failed--------", "duration", elapsed, "error", err)
	} else {
		slog.Info("-------"+stage+" Done--------", "duration", elapsed)
	}
	return result, err
}
