// Package metrics exposes Prometheus collectors for the scanner service.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scanPagesTotal             *prometheus.CounterVec
	scanHeadlessPromotedTotal  *prometheus.CounterVec
	scanCandidatesTotal        *prometheus.CounterVec
	scanOpportunitiesTotal     *prometheus.CounterVec
	scanDuplicatesTotal        *prometheus.CounterVec
	scanDurationSeconds        *prometheus.HistogramVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scanPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scan_pages_total",
				Help: "Total number of source pages fetched, labeled by site and status.",
			},
			[]string{"site", "status"},
		)

		scanHeadlessPromotedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scan_headless_promoted_total",
				Help: "Total number of fetches retried via a headless browser, labeled by site.",
			},
			[]string{"site"},
		)

		scanCandidatesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scan_candidates_total",
				Help: "Total number of candidate blocks located, labeled by source and strategy.",
			},
			[]string{"source", "strategy"},
		)

		scanOpportunitiesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scan_opportunities_total",
				Help: "Total number of opportunities admitted past scoring and deduplication.",
			},
			[]string{"source"},
		)

		scanDuplicatesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scan_duplicates_total",
				Help: "Total number of candidates dropped as canonical-key duplicates.",
			},
			[]string{"source"},
		)

		scanDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scan_duration_seconds",
				Help:    "Histogram of full scan run durations, labeled by outcome.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"outcome"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch records a completed source page fetch.
func ObserveFetch(site string, statusCode int) {
	scanPagesTotal.WithLabelValues(SanitizeSite(site), strconv.Itoa(statusCode)).Inc()
}

// ObserveHeadlessPromotion records a fetch retried with a browser.
func ObserveHeadlessPromotion(site string) {
	scanHeadlessPromotedTotal.WithLabelValues(SanitizeSite(site)).Inc()
}

// ObserveCandidates records candidate blocks located on a source page.
func ObserveCandidates(source, strategy string, count int) {
	if count > 0 {
		scanCandidatesTotal.WithLabelValues(source, strategy).Add(float64(count))
	}
}

// ObserveOpportunities records admitted opportunities for a source.
func ObserveOpportunities(source string, count int) {
	if count > 0 {
		scanOpportunitiesTotal.WithLabelValues(source).Add(float64(count))
	}
}

// ObserveDuplicates records canonical-key duplicates dropped for a source.
func ObserveDuplicates(source string, count int) {
	if count > 0 {
		scanDuplicatesTotal.WithLabelValues(source).Add(float64(count))
	}
}

// ObserveScan records the duration of one scan run.
func ObserveScan(outcome string, duration time.Duration) {
	scanDurationSeconds.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
