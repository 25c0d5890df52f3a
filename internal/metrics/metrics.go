// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the planner, fetch pipeline, archive
// index, and segment compactor.

var (
	// Planner metrics
	RequestsPlanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedcore_requests_planned_total",
			Help: "Total number of fetch requests emitted by the planner",
		},
		[]string{"mode"}, // "continuous", "event"
	)

	RequestsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seedcore_requests_pruned_total",
			Help: "Total number of planned requests dropped because their window was already covered",
		},
	)

	RequestsCombined = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seedcore_requests_combined_total",
			Help: "Total number of single-station requests folded into a widened station-pattern request",
		},
	)

	PlanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seedcore_plan_duration_seconds",
			Help:    "Duration of one plan/prune/combine pass",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	// Fetch pipeline metrics
	RequestsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedcore_requests_fetched_total",
			Help: "Total number of fetch requests issued to the remote data service",
		},
		[]string{"result"}, // "success", "partial", "error"
	)

	FilesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seedcore_files_written_total",
			Help: "Total number of MiniSEED files written to the SDS archive",
		},
	)

	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seedcore_fetch_duration_seconds",
			Help:    "Duration of one remote fetch request",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// Archive index metrics
	IndexRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "seedcore_index_rows",
			Help: "Current number of rows in an archive index table",
		},
		[]string{"table"}, // "archive_data", "arrival_data"
	)

	IndexRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seedcore_index_retries_total",
			Help: "Total number of retried index operations after a busy database",
		},
		[]string{"operation"},
	)

	IndexQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "seedcore_index_query_duration_seconds",
			Help:    "Duration of archive index queries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Segment compactor metrics
	CompactorSegmentsMerged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seedcore_compactor_segments_merged_total",
			Help: "Total number of adjacent archive_data rows merged by the compactor",
		},
	)

	CompactorRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "seedcore_compactor_run_duration_seconds",
			Help:    "Duration of one compactor pass",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Bootstrap metrics
	BootstrapFilesScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seedcore_bootstrap_files_scanned_total",
			Help: "Total number of SDS files examined during index bootstrap",
		},
	)

	BootstrapFilesIndexed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seedcore_bootstrap_files_indexed_total",
			Help: "Total number of SDS files successfully added to the index during bootstrap",
		},
	)

	// Travel-time service metrics
	TravelTimeUnavailableTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "seedcore_travel_time_unavailable_total",
			Help: "Total number of (event, station) pairs skipped because no arrival could be computed",
		},
	)

	// Circuit breaker metrics (remote data-service client)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "seedcore_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// RecordPlan records one plan/prune/combine pass.
func RecordPlan(mode string, planned, pruned, combined int, duration time.Duration) {
	RequestsPlanned.WithLabelValues(mode).Add(float64(planned))
	RequestsPruned.Add(float64(pruned))
	RequestsCombined.Add(float64(combined))
	PlanDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordFetch records the outcome of one remote fetch request.
func RecordFetch(result string, duration time.Duration) {
	RequestsFetched.WithLabelValues(result).Inc()
	FetchDuration.Observe(duration.Seconds())
}

// RecordIndexQuery records the duration of an archive index operation.
func RecordIndexQuery(operation string, duration time.Duration) {
	IndexQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordIndexRetry records a busy-database retry for the named operation.
func RecordIndexRetry(operation string) {
	IndexRetries.WithLabelValues(operation).Inc()
}

// SetIndexRows sets the current row count for an index table.
func SetIndexRows(table string, count int64) {
	IndexRows.WithLabelValues(table).Set(float64(count))
}

// SetCircuitBreakerState records a circuit breaker's current state, using
// gobreaker's State ordering (closed=0, half-open=1, open=2).
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
