// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package config

import "testing"

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.SDSPath = "/data/sds"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"missing sds_path", func(c *Config) { c.SDSPath = "" }, true},
		{"negative num_processes", func(c *Config) { c.NumProcesses = -1 }, true},
		{"negative gap_tolerance", func(c *Config) { c.GapTolerance = -1 }, true},
		{"bad download_type", func(c *Config) { c.DownloadType = "batch" }, true},
		{"zero days_per_request", func(c *Config) { c.Waveform.DaysPerRequest = 0 }, true},
		{"event max_radius zero", func(c *Config) {
			c.DownloadType = "event"
			c.Event.MaxRadiusDeg = 0
		}, true},
		{"event min_radius over max", func(c *Config) {
			c.DownloadType = "event"
			c.Event.MinRadiusDeg = 10
			c.Event.MaxRadiusDeg = 5
		}, true},
		{"event valid radius range", func(c *Config) {
			c.DownloadType = "event"
			c.Event.MinRadiusDeg = 0
			c.Event.MaxRadiusDeg = 90
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
