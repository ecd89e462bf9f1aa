// Package metrics exposes Prometheus counters for data loading, logins and exports.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tolldesk"

var (
	// Fetches counts collection fetches by entity and outcome (ok, error).
	Fetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetches_total",
		Help:      "Entity collection fetches by outcome.",
	}, []string{"entity", "outcome"})

	// FetchDuration observes how long each collection fetch took.
	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Entity collection fetch latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"entity"})

	// Logins counts login attempts by outcome (ok, denied, invalid_role, error).
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	// Exports counts spreadsheet exports by format.
	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Record exports by file format.",
	}, []string{"format"})

	// ActiveSessions tracks sessions held in memory.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Sessions currently cached in memory.",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
