// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"fleet-usage/internal/usage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Reconciliations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleet_usage_reconciliations_total",
		Help: "Number of per-asset usage reconciliations run",
	})

	ReadingsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleet_usage_readings_dropped_total",
		Help: "Readings excluded by the reconciler, by source and stage",
	}, []string{"source", "reason"})

	SegmentsCapped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleet_usage_segments_capped_total",
		Help: "Usage increments clipped at the per-day ceiling",
	})

	CounterResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fleet_usage_counter_resets_total",
		Help: "Backwards counter steps skipped during accumulation",
	})

	ReportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fleet_report_duration_seconds",
		Help:    "Wall time of fleet usage report runs",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fleet_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fleet_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// ObserveReconciliation records what the reconciler filtered out for one asset.
func ObserveReconciliation(res usage.Result) {
	Reconciliations.Inc()
	ReadingsDropped.WithLabelValues("diesel", "inconsistent").Add(float64(res.DieselDropped))
	ReadingsDropped.WithLabelValues("checklist", "envelope").Add(float64(res.ChecklistDropped))
	ReadingsDropped.WithLabelValues("any", "invalid").Add(float64(res.InvalidReadings))
	SegmentsCapped.Add(float64(res.CappedSegments))
	CounterResets.Add(float64(res.ResetSegments))
}

func ObserveReport(started time.Time) {
	ReportDuration.Observe(time.Since(started).Seconds())
}
