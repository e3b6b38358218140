package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultSuccess      = "success"
	ResultNetworkError = "network_error"
	ResultParseError   = "parse_error"
)

var (
	FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "proxyist_fetches_total",
		Help: "The total number of proxy list fetches, by source and result",
	}, []string{"source", "result"})

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "proxyist_fetch_duration_seconds",
		Help:    "Duration of a single proxy list fetch including parsing",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 9), // 0.1s to 25.6s
	}, []string{"source"})

	RecordsFetched = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "proxyist_records_fetched",
		Help: "Number of records returned by the most recent successful fetch",
	})

	CacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "proxyist_cache_size",
		Help: "Current number of records left in the random-draw cache",
	})

	CacheRefills = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proxyist_cache_refills_total",
		Help: "The total number of times the random-draw cache was refilled",
	})
)

// Handler exposes the default registry for mounting on an existing mux.
func Handler() http.Handler {
	return promhttp.Handler()
}
