// Package obslog is the logging and metrics surface every other package
// reaches for instead of rolling its own: a slog.Logger configured the way
// core/lynx.Lynx already logs its own lifecycle banners, and a Sink of
// Prometheus counters/histograms for the handful of ingest and search
// events worth graphing.
package obslog

import (
	"log/slog"
	"os"
)

// NewLogger returns a JSON slog.Logger at the given level, suitable for
// passing to slog.SetDefault from a cmd/ main. JSON output over the
// teacher's plain banner lines because every entrypoint here runs
// unattended behind a cron schedule rather than a developer's terminal.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Banner logs the same three-line bracketed banner core/lynx.Lynx uses for
// its own start/wait/stop transitions, reused here so pipeline.Monitor and
// any future lifecycle stage log in a visually consistent style.
func Banner(logger *slog.Logger, label string) {
	logger.Info("-----------------")
	logger.Info("-------" + label + "--------")
	logger.Info("-----------------")
}
