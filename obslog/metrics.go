package obslog

import "github.com/prometheus/client_golang/prometheus"

// Sink is the narrow metrics surface pipeline and amendments report
// through, so neither package imports prometheus directly. A no-op Sink
// satisfies it trivially for tests and for code paths where metrics
// weren't wired up.
type Sink interface {
	DocumentsProcessed(source string, n int)
	DocumentsUpserted(source string, n int)
	DocumentsFailed(source string, n int)
	AmendmentsRescraped(n int)
	StageDuration(stage string, seconds float64)
}

// PromSink is a Sink backed by package-global Prometheus collectors,
// registered once at package init, the same pattern etalazz-vsa's churn
// package uses for its own counters: global collectors rather than one
// per Sink instance, since a process only ever wants one /metrics series
// per name.
type PromSink struct{}

var (
	documentsProcessedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lex_documents_processed_total",
		Help: "Documents enumerated and parsed, by source.",
	}, []string{"source"})
	documentsUpsertedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lex_documents_upserted_total",
		Help: "Points successfully upserted into the vector store, by source.",
	}, []string{"source"})
	documentsFailedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lex_documents_failed_total",
		Help: "Documents that failed fetch, parse, or upsert, by source.",
	}, []string{"source"})
	amendmentsRescrapedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lex_amendments_rescraped_total",
		Help: "Documents rescraped because the amendment manifest marked them stale.",
	})
	stageDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lex_stage_duration_seconds",
		Help:    "Wall-clock duration of a pipeline.Monitor-wrapped stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
)

func init() {
	prometheus.MustRegister(documentsProcessedTotal, documentsUpsertedTotal, documentsFailedTotal,
		amendmentsRescrapedTotal, stageDurationSeconds)
}

// NewPromSink returns the process-wide Prometheus Sink. The metrics
// registered for it are exposed by wiring promhttp.Handler into whatever
// HTTP mux the deployment already runs; this module doesn't start its own
// metrics listener, matching the Non-goal that excludes an HTTP surface.
func NewPromSink() *PromSink { return &PromSink{} }

func (PromSink) DocumentsProcessed(source string, n int) {
	documentsProcessedTotal.WithLabelValues(source).Add(float64(n))
}

func (PromSink) DocumentsUpserted(source string, n int) {
	documentsUpsertedTotal.WithLabelValues(source).Add(float64(n))
}

func (PromSink) DocumentsFailed(source string, n int) {
	documentsFailedTotal.WithLabelValues(source).Add(float64(n))
}

func (PromSink) AmendmentsRescraped(n int) {
	amendmentsRescrapedTotal.Add(float64(n))
}

func (PromSink) StageDuration(stage string, seconds float64) {
	stageDurationSeconds.WithLabelValues(stage).Observe(seconds)
}

// NopSink discards every observation. The zero value is ready to use.
type NopSink struct{}

func (NopSink) DocumentsProcessed(string, int)  {}
func (NopSink) DocumentsUpserted(string, int)   {}
func (NopSink) DocumentsFailed(string, int)     {}
func (NopSink) AmendmentsRescraped(int)         {}
func (NopSink) StageDuration(string, float64)   {}
