// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package travetime

import (
	"math"
	"strings"
)

// kmPerDegree is the mean great-circle distance of one degree of arc on a
// spherical Earth (radius 6371 km).
const kmPerDegree = 111.195

// LinearModel is a constant-velocity stand-in for a real Earth model
// (IASP91, AK135, ...), which the planner treats as an external,
// injected collaborator. It estimates first arrivals from mean crustal/
// mantle P and S velocities instead of ray-traced travel-time tables, so
// run-cli has a working default without bundling a travel-time service.
type LinearModel struct {
	name      string
	pVelKmSec float64
	sVelKmSec float64
}

// NewLinearModel builds a LinearModel under the given model name (recorded
// alongside every ArrivalRecord) with the given mean P and S velocities.
func NewLinearModel(name string, pVelKmSec, sVelKmSec float64) *LinearModel {
	return &LinearModel{name: name, pVelKmSec: pVelKmSec, sVelKmSec: sVelKmSec}
}

// DefaultIASP91Linear approximates IASP91's shallow-event, regional-distance
// behavior with mean velocities of 8.04 km/s (P) and 4.47 km/s (S).
func DefaultIASP91Linear() *LinearModel {
	return NewLinearModel("iasp91-linear", 8.04, 4.47)
}

// Name implements Model.
func (m *LinearModel) Name() string { return m.name }

// FirstArrival implements Model using straight-line slant distance and
// constant velocities. ok is false only if phases names neither a P- nor
// an S-family phase, mirroring TravelTimeUnavailable's "no arrival for
// this geometry" condition.
func (m *LinearModel) FirstArrival(phases []string, depthKm, distanceDeg float64) (p, s Arrival, ok bool) {
	var wantP, wantS bool
	for _, ph := range phases {
		switch {
		case strings.HasPrefix(strings.ToUpper(ph), "P"):
			wantP = true
		case strings.HasPrefix(strings.ToUpper(ph), "S"):
			wantS = true
		}
	}
	if !wantP && !wantS {
		return Arrival{}, Arrival{}, false
	}

	surfaceKm := distanceDeg * kmPerDegree
	slantKm := math.Hypot(surfaceKm, depthKm)

	if wantP {
		p = Arrival{Phase: "P", OffsetSec: slantKm / m.pVelKmSec, RayParam: distanceDeg / (slantKm / m.pVelKmSec)}
	}
	if wantS {
		s = Arrival{Phase: "S", OffsetSec: slantKm / m.sVelKmSec, RayParam: distanceDeg / (slantKm / m.sVelKmSec)}
	}
	return p, s, true
}
