// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/seedcore/internal/apperr"
)

// envPrefix is stripped from every SEEDCORE_-prefixed environment variable
// before it is mapped onto a koanf path.
const envPrefix = "SEEDCORE_"

// defaultConfig returns sensible defaults, applied before the config file
// and environment layers.
func defaultConfig() *Config {
	return &Config{
		DownloadType: "continuous",
		NumProcesses: 0,
		GapTolerance: 60,
		Credentials:  map[string]Credential{},
		Waveform: WaveformConfig{
			ChannelPref:    []string{"HH", "BH", "EH"},
			LocationPref:   []string{"", "00", "10"},
			DaysPerRequest: 1,
		},
		Station: StationConfig{
			Level: "channel",
		},
		Event: EventConfig{
			Model:      "IASP91",
			BeforePSec: 10,
			AfterPSec:  120,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// sliceConfigPaths lists koanf paths that arrive from the environment as
// comma-separated strings but must be unmarshaled as slices.
var sliceConfigPaths = []string{
	"waveform.channel_pref",
	"waveform.location_pref",
	"station.force_stations",
	"station.exclude_stations",
}

// Load builds a Config from built-in defaults, an optional YAML file at
// path (skipped if path is given but does not exist, or if path is empty
// and no default-named file exists), and
// SEEDCORE_-prefixed environment variables, in that order of precedence,
// then validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, &apperr.ConfigError{Msg: fmt.Sprintf("load defaults: %v", err)}
	}

	resolved := resolveConfigPath(path)
	if resolved != "" {
		if err := k.Load(file.Provider(resolved), yaml.Parser()); err != nil {
			return nil, &apperr.ConfigError{Msg: fmt.Sprintf("load config file %s: %v", resolved, err)}
		}
	}

	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, &apperr.ConfigError{Msg: fmt.Sprintf("load environment: %v", err)}
	}

	if err := processSliceFields(k); err != nil {
		return nil, &apperr.ConfigError{Msg: err.Error()}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, &apperr.ConfigError{Msg: fmt.Sprintf("unmarshal config: %v", err)}
	}

	if cfg.DBPath == "" && cfg.SDSPath != "" {
		cfg.DBPath = cfg.SDSPath + "/database.sqlite"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath returns path if non-empty and it exists, otherwise the
// first of DefaultConfigPaths that exists, otherwise "".
func resolveConfigPath(path string) string {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultConfigPaths lists the paths searched when no -f flag is given.
var DefaultConfigPaths = []string{
	"seedcore.yaml",
	"seedcore.yml",
	"/etc/seedcore/config.yaml",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps a SEEDCORE_-stripped environment variable name to
// its koanf path, e.g. SDS_PATH -> sds_path, WAVEFORM_CLIENT ->
// waveform.client. Unmapped keys are skipped so stray environment
// variables never pollute the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	mappings := map[string]string{
		"sds_path":      "sds_path",
		"db_path":       "db_path",
		"download_type": "download_type",
		"num_processes": "num_processes",
		"gap_tolerance": "gap_tolerance",

		"waveform_client":           "waveform.client",
		"waveform_channel_pref":     "waveform.channel_pref",
		"waveform_location_pref":    "waveform.location_pref",
		"waveform_days_per_request": "waveform.days_per_request",

		"station_client":           "station.client",
		"station_inventory_file":   "station.inventory_file",
		"station_force_stations":   "station.force_stations",
		"station_exclude_stations": "station.exclude_stations",
		"station_network":          "station.network",
		"station_station":          "station.station",
		"station_location":         "station.location",
		"station_channel":          "station.channel",
		"station_include_restricted": "station.include_restricted",

		"event_client":        "event.client",
		"event_model":         "event.model",
		"event_min_depth_km":  "event.min_depth_km",
		"event_max_depth_km":  "event.max_depth_km",
		"event_min_magnitude": "event.min_magnitude",
		"event_max_magnitude": "event.max_magnitude",
		"event_min_radius":    "event.min_radius",
		"event_max_radius":    "event.max_radius",
		"event_before_p_sec":  "event.before_p_sec",
		"event_after_p_sec":   "event.after_p_sec",
		"event_catalog_path":  "event.catalog_path",
		"event_contributor":   "event.contributor",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := mappings[key]; ok {
		return mapped
	}
	return ""
}

// GetKoanfInstance returns a new empty Koanf instance for callers that need
// direct access.
func GetKoanfInstance() *koanf.Koanf {
	return koanf.New(".")
}
