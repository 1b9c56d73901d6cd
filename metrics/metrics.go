// Package metrics exposes prometheus instrumentation for sync runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jacobemerick/lifestream-service/process"
)

var (
	recordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifestream_records_total",
		Help: "Per-record sync outcomes, labelled by source and outcome.",
	}, []string{"source", "outcome"})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lifestream_sync_runs_total",
		Help: "Completed sync runs, labelled by source and status.",
	}, []string{"source", "status"})

	runDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "lifestream_sync_duration_seconds",
		Help:    "Wall time of one source sync run.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
)

// ObserveRun records the outcome tallies and duration of one source
// sync run.
func ObserveRun(sourceName string, report process.Report, duration time.Duration, err error) {
	recordsTotal.WithLabelValues(sourceName, "inserted").Add(float64(report.Inserted))
	recordsTotal.WithLabelValues(sourceName, "updated").Add(float64(report.Updated))
	recordsTotal.WithLabelValues(sourceName, "skipped").Add(float64(report.Skipped))
	recordsTotal.WithLabelValues(sourceName, "failed").Add(float64(report.Failed))

	status := "ok"
	if err != nil {
		status = "error"
	}
	runsTotal.WithLabelValues(sourceName, status).Inc()
	runDuration.WithLabelValues(sourceName).Observe(duration.Seconds())
}
