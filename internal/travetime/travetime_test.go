// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package travetime

import "testing"

type fakeModel struct {
	name string
	p, s Arrival
	ok   bool
}

func (m fakeModel) Name() string { return m.name }

func (m fakeModel) FirstArrival(phases []string, depthKm, distanceDeg float64) (Arrival, Arrival, bool) {
	return m.p, m.s, m.ok
}

func TestModelInterfaceSatisfaction(t *testing.T) {
	var _ Model = fakeModel{}
}

func TestFirstArrivalNotOK(t *testing.T) {
	m := fakeModel{name: "iasp91"}
	p, s, ok := m.FirstArrival(TTBasic, 10, 45)
	if ok {
		t.Fatalf("FirstArrival() ok = true, want false for zero-value fake")
	}
	if p.Phase != "" || s.Phase != "" {
		t.Errorf("FirstArrival() = (%+v, %+v), want zero arrivals when ok=false", p, s)
	}
}

func TestFirstArrivalOK(t *testing.T) {
	want := Arrival{Phase: "P", OffsetSec: 120.5, RayParam: 8.2}
	m := fakeModel{name: "iasp91", p: want, ok: true}
	p, _, ok := m.FirstArrival(TTBasic, 10, 45)
	if !ok {
		t.Fatal("FirstArrival() ok = false, want true")
	}
	if p != want {
		t.Errorf("FirstArrival() p = %+v, want %+v", p, want)
	}
}

func TestTTBasicContainsP_S(t *testing.T) {
	hasP, hasS := false, false
	for _, phase := range TTBasic {
		if phase == "P" {
			hasP = true
		}
		if phase == "S" {
			hasS = true
		}
	}
	if !hasP || !hasS {
		t.Errorf("TTBasic = %v, want it to contain both \"P\" and \"S\"", TTBasic)
	}
}
