// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_queries_total",
			Help: "Total number of queries processed by category",
		},
		[]string{"category"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "assistant_query_duration_seconds",
			Help: "Duration of query processing in seconds",
		},
		[]string{"category"},
	)

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_provider_requests_total",
			Help: "Total number of market-data provider requests by outcome",
		},
		[]string{"provider", "outcome"},
	)

	ResolverFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_resolver_fallbacks_total",
			Help: "Times a resolver fell back to its secondary provider",
		},
		[]string{"resolver"},
	)

	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_answer_cache_hits_total",
			Help: "Answers served from the best-effort cache",
		},
	)
)
