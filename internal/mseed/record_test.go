// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package mseed

import (
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/seedcore/internal/streamkey"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	key := streamkey.Key{Network: "AU", Station: "CMSA", Location: "", Channel: "BHZ"}
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	samples := makeRamp(500)

	trace := Trace{Key: key, SampleRate: 40, Start: start, Samples: samples}

	encoded, err := Encode(trace)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(encoded)%RecordLen != 0 {
		t.Fatalf("Encode() produced %d bytes, not a multiple of RecordLen", len(encoded))
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("Decode() returned %d traces, want 1", len(decoded))
	}
	got := decoded[0]
	if got.Key != key {
		t.Errorf("Decode() key = %+v, want %+v", got.Key, key)
	}
	if got.SampleRate != 40 {
		t.Errorf("Decode() sample rate = %v, want 40", got.SampleRate)
	}
	if !reflect.DeepEqual(got.Samples, samples) {
		t.Errorf("Decode() samples mismatch: got %d samples, want %d", len(got.Samples), len(samples))
	}
	if !got.Start.Equal(start) {
		t.Errorf("Decode() start = %v, want %v", got.Start, start)
	}
}

func TestEncodeDecodeMultiRecord(t *testing.T) {
	key := streamkey.Key{Network: "IU", Station: "ANMO", Location: "00", Channel: "BHZ"}
	start := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	samples := makeRamp(50000)

	trace := Trace{Key: key, SampleRate: 100, Start: start, Samples: samples}

	encoded, err := Encode(trace)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var total []int32
	for _, tr := range decoded {
		total = append(total, tr.Samples...)
	}
	if !reflect.DeepEqual(total, samples) {
		t.Fatalf("Decode() reassembled %d samples, want %d", len(total), len(samples))
	}
}

func TestDecodeRejectsBadLength(t *testing.T) {
	_, err := Decode(make([]byte, RecordLen-1))
	if err == nil {
		t.Fatal("Decode() error = nil, want error for non-multiple-of-RecordLen input")
	}
}
