// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package planner

import (
	"testing"
	"time"

	"github.com/tomtom215/seedcore/internal/model"
)

func oneChannelInventory() model.Inventory {
	return model.Inventory{
		Networks: []model.Network{
			{
				Code: "AU",
				Stations: []model.Station{
					{
						Network: "AU",
						Code:    "CMSA",
						Start:   time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
						End:     model.OpenEnded,
						Channels: []model.Channel{
							{Code: "BHZ", SampleRate: 40, Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), End: model.OpenEnded},
						},
					},
				},
			},
		},
	}
}

func TestContinuousSingleDayEmptyArchive(t *testing.T) {
	inv := oneChannelInventory()
	t0 := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC)

	out := Continuous(inv, t0, t1, 1)
	if len(out) != 1 {
		t.Fatalf("Continuous() returned %d requests, want 1", len(out))
	}
	if !out[0].Start.Equal(t0) {
		t.Errorf("Start = %v, want %v", out[0].Start, t0)
	}
	if out[0].Pattern.Network != "AU" || out[0].Pattern.Station != "CMSA" || out[0].Pattern.Channel != "BHZ" {
		t.Errorf("Pattern = %+v, want AU/CMSA/BHZ", out[0].Pattern)
	}
}

func TestContinuousChunksByDaysPerRequest(t *testing.T) {
	inv := oneChannelInventory()
	t0 := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2023, 6, 11, 0, 0, 0, 0, time.UTC) // 10 days

	out := Continuous(inv, t0, t1, 3)
	if len(out) != 4 { // 3+3+3+1
		t.Fatalf("Continuous() returned %d requests, want 4", len(out))
	}
	if !out[len(out)-1].End.Equal(t1.Add(-time.Duration(float64(time.Second) / 40))) {
		t.Errorf("final window end = %v, want clipped to channel sample period before %v", out[len(out)-1].End, t1)
	}
}

func TestContinuousEmptyInventoryYieldsNoRequests(t *testing.T) {
	out := Continuous(model.Inventory{}, time.Now(), time.Now().Add(24*time.Hour), 1)
	if len(out) != 0 {
		t.Fatalf("Continuous() returned %d requests for empty inventory, want 0", len(out))
	}
}

func TestContinuousDropsChannelOutsideWindow(t *testing.T) {
	inv := oneChannelInventory()
	inv.Networks[0].Stations[0].Channels[0].End = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	t0 := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC)

	out := Continuous(inv, t0, t1, 1)
	if len(out) != 0 {
		t.Fatalf("Continuous() returned %d requests for a channel closed in 2020, want 0", len(out))
	}
}
