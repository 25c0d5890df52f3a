// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package config

import (
	"fmt"

	"github.com/tomtom215/seedcore/internal/apperr"
)

// Validate checks that required configuration is present and well-formed.
// Every failure is a *apperr.ConfigError, fatal at startup.
func (c *Config) Validate() error {
	if err := c.validateCore(); err != nil {
		return err
	}
	if err := c.validateDownloadType(); err != nil {
		return err
	}
	if err := c.validateWaveform(); err != nil {
		return err
	}
	return c.validateEvent()
}

func (c *Config) validateCore() error {
	if c.SDSPath == "" {
		return &apperr.ConfigError{Msg: "sds_path is required"}
	}
	if c.NumProcesses < 0 {
		return &apperr.ConfigError{Msg: "num_processes must be >= 0"}
	}
	if c.GapTolerance < 0 {
		return &apperr.ConfigError{Msg: "gap_tolerance must be >= 0"}
	}
	return nil
}

func (c *Config) validateDownloadType() error {
	switch c.DownloadType {
	case "event", "continuous":
		return nil
	default:
		return &apperr.ConfigError{Msg: fmt.Sprintf("download_type must be \"event\" or \"continuous\", got %q", c.DownloadType)}
	}
}

func (c *Config) validateWaveform() error {
	if c.Waveform.DaysPerRequest < 1 {
		return &apperr.ConfigError{Msg: "waveform.days_per_request must be >= 1"}
	}
	return nil
}

func (c *Config) validateEvent() error {
	if c.DownloadType != "event" {
		return nil
	}
	if c.Event.MinRadiusDeg < 0 || c.Event.MaxRadiusDeg <= 0 {
		return &apperr.ConfigError{Msg: "event.max_radius must be > 0"}
	}
	if c.Event.MinRadiusDeg > c.Event.MaxRadiusDeg {
		return &apperr.ConfigError{Msg: "event.min_radius must be <= event.max_radius"}
	}
	if c.Event.MinMag > c.Event.MaxMag && c.Event.MaxMag != 0 {
		return &apperr.ConfigError{Msg: "event.min_magnitude must be <= event.max_magnitude"}
	}
	return nil
}
