// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

// Package planner converts an Inventory plus either a time window or an
// event catalog into the minimal set of FetchRequests not already covered
// by the archive index. The pipeline is always plan, then prune, then
// combine: pruning needs the original single-stream keys to query the
// index correctly, and combining widens the station/location/channel
// fields only after pruning has settled each stream's own coverage.
package planner

import (
	"time"

	"github.com/tomtom215/seedcore/internal/index"
	"github.com/tomtom215/seedcore/internal/streamkey"
)

// MinRequestWindow is the shortest fetch window worth issuing. Pruning
// discards anything smaller to avoid pathologically small requests; this
// is the one constant named by the source's inconsistent 2-3 second range.
const MinRequestWindow = 2 * time.Second

// GapIndex is the subset of the archive index the planner's pruning step
// needs: the ordered list of stored intervals overlapping a window.
type GapIndex interface {
	OverlappingIntervals(key streamkey.Key, start, end time.Time) ([]index.Interval, error)
}
