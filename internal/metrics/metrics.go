// Package metrics defines the Prometheus collectors shared by the CLI
// stages and exposes an HTTP handler for scraping when enabled.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exercised across tokenize/buildindex/search.
type Metrics struct {
	DocsTokenizedTotal prometheus.Counter
	TokensEmittedTotal prometheus.Counter
	DocsIndexedTotal   prometheus.Counter
	TermsIndexedTotal  prometheus.Gauge
	BuildDuration      prometheus.Histogram
	QueriesTotal       *prometheus.CounterVec
	QueryLatency       prometheus.Histogram
	QueryResultsCount  prometheus.Histogram
}

// New creates and registers every collector.
func New() *Metrics {
	m := &Metrics{
		DocsTokenizedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ruindex_docs_tokenized_total",
			Help: "Total documents processed by the tokenizer stage.",
		}),
		TokensEmittedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ruindex_tokens_emitted_total",
			Help: "Total tokens written across all tokenized documents.",
		}),
		DocsIndexedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ruindex_docs_indexed_total",
			Help: "Total documents folded into an index.bin.",
		}),
		TermsIndexedTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ruindex_terms_indexed_total",
			Help: "Distinct terms in the index built so far.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ruindex_build_duration_seconds",
			Help:    "Wall-clock time to build an index.bin.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 15),
		}),
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ruindex_queries_total",
			Help: "Total queries evaluated, by result type (hit, empty).",
		}, []string{"result_type"}),
		QueryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ruindex_query_latency_seconds",
			Help:    "Query evaluation latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		QueryResultsCount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ruindex_query_results_count",
			Help:    "Number of result doc ids returned per query, before pagination.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
		}),
	}

	prometheus.MustRegister(
		m.DocsTokenizedTotal,
		m.TokensEmittedTotal,
		m.DocsIndexedTotal,
		m.TermsIndexedTotal,
		m.BuildDuration,
		m.QueriesTotal,
		m.QueryLatency,
		m.QueryResultsCount,
	)

	return m
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartServer launches a background debug HTTP server exposing /metrics
// and returns its shutdown function.
func StartServer(port int) (shutdown func(context.Context) error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("metrics server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()

	return server.Shutdown
}
