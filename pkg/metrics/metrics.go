package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes recorded by the collector.
const (
	OutcomeOK         = "ok"
	OutcomeHTTPError  = "http_error"
	OutcomeFetchError = "fetch_error"
	OutcomeNotXML     = "not_xml"
	OutcomeVisited    = "already_visited"
	OutcomeDepthLimit = "depth_limit"
)

// Manifest generation paths.
const (
	PathLLM      = "llm"
	PathFallback = "fallback"
)

var (
	SitemapFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llmstxt_sitemap_fetches_total",
			Help: "Sitemap documents considered during traversal, by outcome",
		},
		[]string{"outcome"},
	)

	LocateFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llmstxt_locate_failures_total",
			Help: "Sitemap resolution failures by error type",
		},
		[]string{"type"},
	)

	ManifestsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llmstxt_manifests_generated_total",
			Help: "Generated llms.txt manifests by generation path",
		},
		[]string{"path"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llmstxt_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"route", "status"},
	)
)

// ObserveRequest records one finished API request.
func ObserveRequest(route string, status int, started time.Time) {
	RequestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(time.Since(started).Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
