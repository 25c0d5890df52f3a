// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package config

import "time"

// Config holds the full run configuration: archive location, download mode,
// resource limits, remote-service credentials, and the waveform/station/
// event sub-configs consumed by the planner and fetch pipeline.
//
// Loading order (Koanf v2): built-in defaults, then an optional YAML file,
// then SEEDCORE_-prefixed environment variables, each layer overriding the
// previous. Config is immutable after Load and safe for concurrent reads.
type Config struct {
	SDSPath      string  `koanf:"sds_path"`
	DBPath       string  `koanf:"db_path"`
	DownloadType string  `koanf:"download_type"` // "event" or "continuous"
	NumProcesses int     `koanf:"num_processes"` // 0 = use all available
	GapTolerance float64 `koanf:"gap_tolerance"` // seconds

	// Credentials maps "NN", "NN.SSSSS", or the sentinel "open" to a
	// user:password pair for the remote data service. Resolution precedence
	// (network.station, then network, then open) lives in internal/remote.
	Credentials map[string]Credential `koanf:"credentials"`

	Waveform WaveformConfig `koanf:"waveform"`
	Station  StationConfig  `koanf:"station"`
	Event    EventConfig    `koanf:"event"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// Credential is one entry of the credentials map.
type Credential struct {
	User     string `koanf:"user"`
	Password string `koanf:"password"`
}

// WaveformConfig controls how continuous waveform data is requested.
type WaveformConfig struct {
	Client         string   `koanf:"client"` // remote data-service identifier
	ChannelPref    []string `koanf:"channel_pref"`
	LocationPref   []string `koanf:"location_pref"`
	DaysPerRequest int      `koanf:"days_per_request"`
}

// GeoConstraint restricts station or event selection to a bounding box or
// an annular disk around a center point. Kind selects which fields apply;
// the zero value (Kind == "") means no geographic restriction.
type GeoConstraint struct {
	Kind string `koanf:"kind"` // "", "box", or "annulus"

	// box
	MinLat float64 `koanf:"min_lat"`
	MaxLat float64 `koanf:"max_lat"`
	MinLon float64 `koanf:"min_lon"`
	MaxLon float64 `koanf:"max_lon"`

	// annulus
	CenterLat float64 `koanf:"center_lat"`
	CenterLon float64 `koanf:"center_lon"`
	MinRadius float64 `koanf:"min_radius"` // degrees
	MaxRadius float64 `koanf:"max_radius"` // degrees
}

// StationConfig selects which stations enter the Inventory.
type StationConfig struct {
	Client          string   `koanf:"client"`
	InventoryFile   string   `koanf:"inventory_file"` // optional local file, skips the remote service
	ForceStations   []string `koanf:"force_stations"` // "NN.SSSSS", empty means no restriction
	ExcludeStations []string `koanf:"exclude_stations"`

	StartTime time.Time `koanf:"start_time"`
	EndTime   time.Time `koanf:"end_time"`

	StartBefore *time.Time `koanf:"start_before"`
	StartAfter  *time.Time `koanf:"start_after"`
	EndBefore   *time.Time `koanf:"end_before"`
	EndAfter    *time.Time `koanf:"end_after"`

	Network  string `koanf:"network"` // glob
	Station  string `koanf:"station"`
	Location string `koanf:"location"`
	Channel  string `koanf:"channel"`

	Geo               GeoConstraint `koanf:"geo"`
	IncludeRestricted bool          `koanf:"include_restricted"`
	Level             string        `koanf:"level"` // fixed at "channel"
}

// EventConfig selects which earthquakes the event planner runs against.
type EventConfig struct {
	Client string `koanf:"client"`
	Model  string `koanf:"model"` // travel-time model name, default IASP91

	StartTime time.Time `koanf:"start_time"`
	EndTime   time.Time `koanf:"end_time"`

	MinDepthKm float64 `koanf:"min_depth_km"`
	MaxDepthKm float64 `koanf:"max_depth_km"`
	MinMag     float64 `koanf:"min_magnitude"`
	MaxMag     float64 `koanf:"max_magnitude"`

	MinRadiusDeg float64 `koanf:"min_radius"`
	MaxRadiusDeg float64 `koanf:"max_radius"`
	BeforePSec   float64 `koanf:"before_p_sec"`
	AfterPSec    float64 `koanf:"after_p_sec"`

	CatalogPath string `koanf:"catalog_path"` // optional local catalog, skips the remote service

	IncludeAllOrigins    bool `koanf:"include_all_origins"`
	IncludeAllMagnitudes bool `koanf:"include_all_magnitudes"`
	IncludeArrivals      bool `koanf:"include_arrivals"`

	Limit        *int          `koanf:"limit"`
	Offset       *int          `koanf:"offset"`
	Contributor  string        `koanf:"contributor"`
	UpdatedAfter *time.Time    `koanf:"updated_after"`
	Geo          GeoConstraint `koanf:"geo"`
}

// LoggingConfig controls the zerolog sink used by every package.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
