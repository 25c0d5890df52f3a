// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

// Package travetime defines the boundary between the event planner and the
// travel-time model service. The model itself (IASP91, AK135, or any other
// Earth model) is an external collaborator; this package only names the
// contract the planner calls through.
package travetime

// Arrival is the first-arrival time, in seconds after the event origin, for
// one named phase.
type Arrival struct {
	Phase     string
	OffsetSec float64
	RayParam  float64
}

// Model looks up predicted phase arrivals for an event-to-station geometry.
// Implementations may call out to a local taup table, a remote service, or
// any other source; the planner treats every implementation identically.
type Model interface {
	// Name identifies the Earth model ("iasp91", "ak135", ...), persisted
	// alongside every ArrivalRecord so a later run can tell which model
	// produced it.
	Name() string

	// FirstArrival returns the first arrival among phases and the first
	// arrival whose phase name begins with "S", for an event at depthKm
	// observed at distanceDeg. ok is false if no arrival could be computed
	// for this geometry (the planner then skips the station without it
	// being an error).
	FirstArrival(phases []string, depthKm, distanceDeg float64) (p, s Arrival, ok bool)
}

// TTBasic is the minimum phase set used for first-arrival estimation, named
// after the travel-time service's own "ttbasic" phase-set convention.
var TTBasic = []string{"P", "p", "Pn", "Pg", "S", "s", "Sn", "Sg"}
