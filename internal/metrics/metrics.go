// Package metrics exposes the process-wide prometheus instruments.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DocumentsScraped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lexingest_documents_scraped_total",
		Help: "Documents fetched from source sites, by kind and result.",
	}, []string{"kind", "result"})

	DocumentsUpserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lexingest_documents_upserted_total",
		Help: "Points written to the vector store, by kind.",
	}, []string{"kind"})

	FetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lexingest_fetch_retries_total",
		Help: "HTTP fetch attempts that were retried.",
	})

	RateLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lexingest_rate_limit_hits_total",
		Help: "Responses that signalled rate limiting.",
	})

	EmbedDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lexingest_embed_duration_seconds",
		Help:    "Wall time per dense embedding call.",
		Buckets: prometheus.DefBuckets,
	})

	UpsertDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lexingest_store_upsert_duration_seconds",
		Help:    "Wall time per vector store upsert batch, by kind.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)

// Handler serves the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
