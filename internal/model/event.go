// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package model

import "time"

// Event is a single earthquake origin: time, location, depth, magnitude.
type Event struct {
	ID        string
	Time      time.Time
	Lat       float64
	Lon       float64
	DepthKm   float64
	Magnitude float64
}

// EventCatalog is a read-only collection of events, supplied by the
// external event-service collaborator.
type EventCatalog struct {
	Events []Event
}
