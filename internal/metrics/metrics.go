// Package metrics defines the Prometheus collectors of the wardrobe service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes recorded in SearchesTotal.
const (
	OutcomeHit          = "hit"
	OutcomeZeroResult   = "zero_result"
	OutcomeInvalidQuery = "invalid_query"
)

// Metrics holds all Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	SearchesTotal       *prometheus.CounterVec
	SearchLatency       *prometheus.HistogramVec
	SearchResultsCount  prometheus.Histogram
	ParseErrorsTotal    *prometheus.CounterVec
	ItemsIndexed        *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg. Pass
// prometheus.NewRegistry() in tests to avoid clashing with the default registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wardrobe_http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wardrobe_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method", "route"},
		),
		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wardrobe_searches_total",
				Help: "Total closet searches by outcome (hit, zero_result, invalid_query).",
			},
			[]string{"closet", "outcome"},
		),
		SearchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wardrobe_search_latency_seconds",
				Help:    "Parse plus rank latency in seconds.",
				Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"closet"},
		),
		SearchResultsCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wardrobe_search_results_count",
				Help:    "Number of items returned per search.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		ParseErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wardrobe_parse_errors_total",
				Help: "Rejected query expressions by error kind.",
			},
			[]string{"kind"},
		),
		ItemsIndexed: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "wardrobe_items_indexed",
				Help: "Number of items in each closet index.",
			},
			[]string{"closet"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SearchesTotal,
		m.SearchLatency,
		m.SearchResultsCount,
		m.ParseErrorsTotal,
		m.ItemsIndexed,
	)
	return m
}

// Handler returns the scrape handler for the registry the metrics were created with.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveSearch records one search of closet.
func (m *Metrics) ObserveSearch(closet string, took time.Duration, results int) {
	if m == nil {
		return
	}
	outcome := OutcomeHit
	if results == 0 {
		outcome = OutcomeZeroResult
	}
	m.SearchesTotal.WithLabelValues(closet, outcome).Inc()
	m.SearchLatency.WithLabelValues(closet).Observe(took.Seconds())
	m.SearchResultsCount.Observe(float64(results))
}

// ObserveParseError records a rejected expression.
func (m *Metrics) ObserveParseError(closet, kind string) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(closet, OutcomeInvalidQuery).Inc()
	m.ParseErrorsTotal.WithLabelValues(kind).Inc()
}

// SetItemsIndexed records the current size of a closet index.
func (m *Metrics) SetItemsIndexed(closet string, n int) {
	if m == nil {
		return
	}
	m.ItemsIndexed.WithLabelValues(closet).Set(float64(n))
}

// ForgetCloset drops the series of a deleted closet.
func (m *Metrics) ForgetCloset(closet string) {
	if m == nil {
		return
	}
	m.ItemsIndexed.DeleteLabelValues(closet)
	m.SearchLatency.DeleteLabelValues(closet)
	m.SearchesTotal.DeletePartialMatch(prometheus.Labels{"closet": closet})
}

// ObserveHTTP records one HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, statusText(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

func statusText(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
