// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

// Package remote defines the boundary between the core and the remote
// seismic data service. The wire protocol (FDSN web services or any other
// transport) is an external collaborator; this package names the
// GetWaveforms/GetStations/GetEvents contract the fetch pipeline and
// planner call through, plus the resilience wrapper every concrete client
// is run behind.
package remote

import (
	"context"
	"time"

	"github.com/tomtom215/seedcore/internal/model"
)

// WaveformRequest names a combined fetch request: StreamKey-pattern fields
// (each may be a single value or a comma-joined, sorted set) plus a time
// window.
type WaveformRequest struct {
	Network  string
	Station  string
	Location string
	Channel  string
	Start    time.Time
	End      time.Time
}

// StationRequest narrows a station/inventory query to the remote service.
type StationRequest struct {
	Network           string
	Station           string
	Location          string
	Channel           string
	Start             time.Time
	End               time.Time
	IncludeRestricted bool
}

// EventRequest narrows an event-catalog query to the remote service.
type EventRequest struct {
	Start                time.Time
	End                  time.Time
	MinDepthKm           float64
	MaxDepthKm           float64
	MinMagnitude         float64
	MaxMagnitude         float64
	Contributor          string
	Limit                int
	Offset               int
	IncludeAllOrigins    bool
	IncludeAllMagnitudes bool
}

// Client is the remote data service contract. Waveform bytes are the raw
// MiniSEED stream as returned by the service; internal/mseed decodes them.
type Client interface {
	GetWaveforms(ctx context.Context, req WaveformRequest) ([]byte, error)
	GetStations(ctx context.Context, req StationRequest) (model.Inventory, error)
	GetEvents(ctx context.Context, req EventRequest) (model.EventCatalog, error)
}
