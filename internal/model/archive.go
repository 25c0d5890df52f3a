// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package model

import (
	"time"

	"github.com/tomtom215/seedcore/internal/streamkey"
)

// ArchiveInterval is one row of archive_data: a contiguous span of
// on-disk coverage for a StreamKey.
type ArchiveInterval struct {
	ID         int64
	Key        streamkey.Key
	Start      time.Time
	End        time.Time
	ImportTime time.Time
}

// ArrivalRecord memoizes the geometry and predicted phase arrivals for one
// (event, station) pair. PArrival/SArrival are the zero time when no
// arrival was computable for that phase.
type ArrivalRecord struct {
	EventID        string
	Magnitude      float64
	EventLat       float64
	EventLon       float64
	EventDepthKm   float64
	EventOrigin    time.Time
	StationNetwork string
	StationCode    string
	StationLat     float64
	StationLon     float64
	StationElev    float64
	StationStart   time.Time
	StationEnd     time.Time // OpenEnded if still operating
	DistanceDeg    float64
	DistanceKm     float64
	AzimuthDeg     float64
	PArrival       time.Time
	SArrival       time.Time
	Model          string
	ImportTime     time.Time
}

// HasP reports whether a P-arrival was computed for this pair.
func (a ArrivalRecord) HasP() bool { return !a.PArrival.IsZero() }

// HasS reports whether an S-arrival was computed for this pair.
func (a ArrivalRecord) HasS() bool { return !a.SArrival.IsZero() }

// FetchRequest is the ephemeral planner→orchestrator unit of work:
// a StreamKey-pattern plus a concrete time window.
type FetchRequest struct {
	Pattern streamkey.Pattern
	Start   time.Time
	End     time.Time
}
