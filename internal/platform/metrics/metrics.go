// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "casemap_http_requests_total",
		Help: "Total number of HTTP requests by path and status code",
	}, []string{"path", "code"})

	RendersTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "casemap_renders_total",
		Help: "Visualizations built, by outcome",
	}, []string{"outcome"})

	RecordsRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "casemap_records_rejected_total",
		Help: "Raw records dropped for missing fields",
	})

	AtlasCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "casemap_atlas_cache_total",
		Help: "Atlas cache lookups by result (hit, miss, error)",
	}, []string{"result"})

	UpstreamDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "casemap_upstream_duration_seconds",
		Help:    "Duration of upstream HTTP fetches in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"upstream"})
)

var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		HTTPRequestsTotal,
		RendersTotal,
		RecordsRejectedTotal,
		AtlasCacheTotal,
		UpstreamDurationSeconds,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
}

// Handler exposes Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
