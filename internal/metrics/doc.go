// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

/*
Package metrics exposes Prometheus counters, gauges, and histograms for the
planner, fetch pipeline, archive index, segment compactor, and bootstrap.

Metrics are registered through promauto against the default registry;
cmd/seedcore exposes them via the diagnostics HTTP server alongside the
ExecuteQuery passthrough endpoint.
*/
package metrics
