// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package mseed

import (
	"reflect"
	"testing"
)

func TestSteim2RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		samples []int32
	}{
		{"single sample", []int32{42}},
		{"small positive diffs", []int32{100, 101, 102, 103, 104, 105}},
		{"mixed sign diffs", []int32{0, 5, -5, 1000, -1000, 0}},
		{"large diffs", []int32{0, 1 << 20, -(1 << 20), 1 << 28}},
		{"constant", []int32{7, 7, 7, 7, 7, 7, 7, 7}},
		{"many small samples", makeRamp(200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nFrames := 8
			payload, _, _, err := steim2Encode(tt.samples, nFrames)
			if err != nil {
				t.Fatalf("steim2Encode() error = %v", err)
			}
			got, err := steim2Decode(payload, nFrames, len(tt.samples))
			if err != nil {
				t.Fatalf("steim2Decode() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.samples) {
				t.Errorf("round trip = %v, want %v", got, tt.samples)
			}
		})
	}
}

func makeRamp(n int) []int32 {
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(i * 3)
	}
	return out
}

func TestSteim2EncodeInsufficientFrames(t *testing.T) {
	samples := makeRamp(10000)
	_, _, _, err := steim2Encode(samples, 1)
	if err == nil {
		t.Fatal("steim2Encode() error = nil, want error when samples exceed frame capacity")
	}
}
