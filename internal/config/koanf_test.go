// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func setupTestEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	os.Clearenv()
	for k, v := range vars {
		if err := os.Setenv(k, v); err != nil {
			t.Fatalf("setenv %s: %v", k, err)
		}
	}
	t.Cleanup(os.Clearenv)
}

func TestLoadDefaultsAndEnvOverride(t *testing.T) {
	setupTestEnv(t, map[string]string{
		"SEEDCORE_SDS_PATH":      "/data/sds",
		"SEEDCORE_GAP_TOLERANCE": "30",
	})
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SDSPath != "/data/sds" {
		t.Errorf("SDSPath = %q, want /data/sds", cfg.SDSPath)
	}
	if cfg.GapTolerance != 30 {
		t.Errorf("GapTolerance = %v, want 30", cfg.GapTolerance)
	}
	if cfg.DBPath != "/data/sds/database.sqlite" {
		t.Errorf("DBPath default = %q, want derived from sds_path", cfg.DBPath)
	}
	if cfg.DownloadType != "continuous" {
		t.Errorf("DownloadType default = %q, want continuous", cfg.DownloadType)
	}
}

func TestLoadMissingSDSPathFails(t *testing.T) {
	setupTestEnv(t, map[string]string{})
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for missing sds_path")
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	setupTestEnv(t, map[string]string{})
	dir := t.TempDir()
	path := filepath.Join(dir, "seedcore.yaml")
	content := "sds_path: /tmp/sds\ndownload_type: event\nevent:\n  min_radius: 0\n  max_radius: 30\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SDSPath != "/tmp/sds" {
		t.Errorf("SDSPath = %q, want /tmp/sds", cfg.SDSPath)
	}
	if cfg.DownloadType != "event" {
		t.Errorf("DownloadType = %q, want event", cfg.DownloadType)
	}
}

func TestEnvTransformFuncUnmappedKeysSkipped(t *testing.T) {
	if got := envTransformFunc("SEEDCORE_RANDOM_UNKNOWN_KEY"); got != "" {
		t.Errorf("envTransformFunc(unknown) = %q, want empty", got)
	}
	if got := envTransformFunc("SEEDCORE_SDS_PATH"); got != "sds_path" {
		t.Errorf("envTransformFunc(SDS_PATH) = %q, want sds_path", got)
	}
}
