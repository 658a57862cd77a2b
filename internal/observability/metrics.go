// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Pricing metrics
	PremiumQuotesComputed prometheus.Counter
	OracleFetches         *prometheus.CounterVec
	PriceCacheLookups     *prometheus.CounterVec

	// Bridge metrics
	BridgeMessages          *prometheus.CounterVec
	BridgeTransitionRejects prometheus.Counter
	BridgeMessagesExpired   prometheus.Counter

	// Signature metrics
	SignatureVerifications *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "cover_chain"
	}

	return &Metrics{
		// Pricing metrics
		PremiumQuotesComputed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "premium_quotes_total",
			Help:      "Total number of premium quotes computed",
		}),
		OracleFetches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "oracle_fetches_total",
			Help:      "Total number of oracle fetch rounds by result (live, fallback)",
		}, []string{"result"}),
		PriceCacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pricing",
			Name:      "price_cache_lookups_total",
			Help:      "Total number of price cache lookups by outcome",
		}, []string{"outcome"}),

		// Bridge metrics
		BridgeMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "messages_total",
			Help:      "Total number of bridge message status records by status",
		}, []string{"status"}),
		BridgeTransitionRejects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "transition_rejects_total",
			Help:      "Total number of rejected bridge message transitions",
		}),
		BridgeMessagesExpired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bridge",
			Name:      "messages_expired_total",
			Help:      "Total number of bridge messages failed by the confirmation window",
		}),

		// Signature metrics
		SignatureVerifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "signing",
			Name:      "verifications_total",
			Help:      "Total number of signature verifications by outcome",
		}, []string{"outcome"}),

		// HTTP metrics
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordPremiumQuote increments the premium quotes counter.
func RecordPremiumQuote() {
	DefaultMetrics.PremiumQuotesComputed.Inc()
}

// RecordOracleFetch records an oracle fetch round outcome.
func RecordOracleFetch(result string) {
	DefaultMetrics.OracleFetches.WithLabelValues(result).Inc()
}

// RecordPriceCacheLookup records a price cache lookup outcome.
func RecordPriceCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	DefaultMetrics.PriceCacheLookups.WithLabelValues(outcome).Inc()
}

// RecordBridgeMessage records a bridge message reaching a status.
func RecordBridgeMessage(status string) {
	DefaultMetrics.BridgeMessages.WithLabelValues(status).Inc()
}

// RecordBridgeTransitionReject increments the rejected transition counter.
func RecordBridgeTransitionReject() {
	DefaultMetrics.BridgeTransitionRejects.Inc()
}

// RecordBridgeMessageExpired increments the expired message counter.
func RecordBridgeMessageExpired() {
	DefaultMetrics.BridgeMessagesExpired.Inc()
}

// RecordSignatureVerification records a verification outcome.
func RecordSignatureVerification(ok bool) {
	outcome := "rejected"
	if ok {
		outcome = "verified"
	}
	DefaultMetrics.SignatureVerifications.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records request latency for the HTTP middleware.
func RecordHTTPRequest(method, path, status string, seconds float64) {
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
}
