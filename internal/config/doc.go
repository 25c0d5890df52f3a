// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

/*
Package config provides the layered configuration surface for seedcore.

# Configuration Sources

Three layers, in increasing precedence:

  - Built-in defaults (defaultConfig in koanf.go)
  - An optional YAML file, passed via run-cli -f or found at one of
    DefaultConfigPaths
  - SEEDCORE_-prefixed environment variables

# Configuration Structure

  - SDSPath / DBPath: archive root and index location
  - DownloadType: "continuous" or "event"
  - NumProcesses / GapTolerance: resource limits
  - Credentials: per-network/station remote-service credentials
  - Waveform: client, channel/location preference order, days per request
  - Station: inventory source, force/exclude lists, time and geographic
    constraints
  - Event: travel-time model, magnitude/depth/radius ranges, catalog source
  - Logging: zerolog level/format/caller

# Usage

	cfg, err := config.Load("seedcore.yaml")
	if err != nil {
	    log.Fatalf("config: %v", err)
	}

# Validation

Load calls Config.Validate, which returns an *apperr.ConfigError (fatal) for
a missing sds_path, an invalid download_type, or an inconsistent event
magnitude/radius range.

# Thread Safety

Config is immutable after Load returns.
*/
package config
