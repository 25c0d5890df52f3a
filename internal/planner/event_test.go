// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package planner

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/seedcore/internal/index"
	"github.com/tomtom215/seedcore/internal/model"
	"github.com/tomtom215/seedcore/internal/travetime"
)

type fakeArrivalIndex struct {
	ext       map[string]index.ArrivalExt
	inserted  []model.ArrivalRecord
	callCount int
}

func (f *fakeArrivalIndex) FetchArrivalsExt(eventID, network, station string) (index.ArrivalExt, bool, error) {
	f.callCount++
	ext, ok := f.ext[eventID+"."+network+"."+station]
	return ext, ok, nil
}

func (f *fakeArrivalIndex) BulkInsertArrivals(records []model.ArrivalRecord) error {
	f.inserted = append(f.inserted, records...)
	return nil
}

type fakeTTModel struct {
	name string
	ok   bool
}

func (m fakeTTModel) Name() string { return m.name }

func (m fakeTTModel) FirstArrival(phases []string, depthKm, distanceDeg float64) (travetime.Arrival, travetime.Arrival, bool) {
	if !m.ok {
		return travetime.Arrival{}, travetime.Arrival{}, false
	}
	return travetime.Arrival{Phase: "P", OffsetSec: 60}, travetime.Arrival{Phase: "S", OffsetSec: 110}, true
}

func oneStationInventory() model.Inventory {
	return model.Inventory{
		Networks: []model.Network{
			{
				Code: "AU",
				Stations: []model.Station{
					{
						Network: "AU",
						Code:    "CMSA",
						Lat:     0, Lon: 30, Elev: 0,
						Start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
						End:   model.OpenEnded,
						Channels: []model.Channel{
							{Code: "BHZ", SampleRate: 40, Start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), End: model.OpenEnded},
						},
					},
				},
			},
		},
	}
}

func TestEventComputesArrivalAndPersists(t *testing.T) {
	idx := &fakeArrivalIndex{}
	ev := model.Event{ID: "E1", Time: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), Lat: 0, Lon: 0, DepthKm: 10}
	inv := oneStationInventory()

	out, err := Event(context.Background(), idx, fakeTTModel{name: "iasp91", ok: true}, ev, inv, nil, 30*time.Second, 120*time.Second)
	if err != nil {
		t.Fatalf("Event() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("Event() returned %d requests, want 1", len(out))
	}
	if len(idx.inserted) != 1 {
		t.Fatalf("Event() inserted %d arrivals, want 1", len(idx.inserted))
	}
	wantP := ev.Time.Add(60 * time.Second)
	wantStart := wantP.Add(-30 * time.Second)
	wantEnd := wantP.Add(120 * time.Second)
	if !out[0].Start.Equal(wantStart) || !out[0].End.Equal(wantEnd) {
		t.Errorf("window = %v..%v, want %v..%v", out[0].Start, out[0].End, wantStart, wantEnd)
	}
}

func TestEventReusesMemoizedArrivalWithoutCallingModel(t *testing.T) {
	ev := model.Event{ID: "E1", Time: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), Lat: 0, Lon: 0, DepthKm: 10}
	idx := &fakeArrivalIndex{ext: map[string]index.ArrivalExt{
		"E1.AU.CMSA": {
			Arrival: index.Arrival{P: ev.Time.Add(65 * time.Second), S: ev.Time.Add(115 * time.Second)},
		},
	}}
	inv := oneStationInventory()

	out, err := Event(context.Background(), idx, fakeTTModel{ok: false}, ev, inv, nil, 30*time.Second, 120*time.Second)
	if err != nil {
		t.Fatalf("Event() error = %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("Event() returned %d requests, want 1 from memoized arrival", len(out))
	}
	if len(idx.inserted) != 0 {
		t.Errorf("Event() inserted %d new arrivals, want 0 when reusing a memoized one", len(idx.inserted))
	}
}

func TestEventSkipsStationWhenNoArrivalAvailable(t *testing.T) {
	idx := &fakeArrivalIndex{}
	ev := model.Event{ID: "E1", Time: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)}
	inv := oneStationInventory()

	out, err := Event(context.Background(), idx, fakeTTModel{ok: false}, ev, inv, nil, 30*time.Second, 120*time.Second)
	if err != nil {
		t.Fatalf("Event() error = %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("Event() returned %d requests, want 0 when the model has no arrival", len(out))
	}
}

func TestEventDropsStationNotOperationalAtOrigin(t *testing.T) {
	idx := &fakeArrivalIndex{}
	ev := model.Event{ID: "E1", Time: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)}
	inv := oneStationInventory() // station opens 2020

	out, err := Event(context.Background(), idx, fakeTTModel{ok: true}, ev, inv, nil, 30*time.Second, 120*time.Second)
	if err != nil {
		t.Fatalf("Event() error = %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("Event() returned %d requests, want 0 for an event predating the station", len(out))
	}
}
