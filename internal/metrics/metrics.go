// Package metrics holds the Prometheus collectors shared across the API.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "homeorg",
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "Count of processed HTTP requests",
	}, []string{"method", "route", "status"})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "homeorg",
		Subsystem: "api",
		Name:      "http_request_duration_seconds",
		Help:      "Latency distribution of HTTP handlers",
		Buckets:   histogramBuckets,
	}, []string{"method", "route", "status"})

	RateLimitHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "homeorg",
		Subsystem: "api",
		Name:      "rate_limit_hits_total",
		Help:      "Number of rate-limited responses",
	}, []string{"key"})

	TxRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "homeorg",
		Subsystem: "db",
		Name:      "tx_retries_total",
		Help:      "Transactions retried after a serialization failure or deadlock",
	})

	OrphanLinksSwept = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "homeorg",
		Subsystem: "membership",
		Name:      "orphan_links_swept_total",
		Help:      "User team links removed because their team no longer exists",
	})
)

// Register adds every collector to reg. Collectors that are already
// registered are ignored.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{RequestsTotal, RequestDuration, RateLimitHits, TxRetries, OrphanLinksSwept}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}
