// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

/*
Package mseed implements the MiniSEED container format with STEIM2 integer
compression: the on-disk encoding for every SDS file, and the day-slicing
rule that attributes samples near a UTC midnight boundary to the correct
file.

Samples are never altered: Encode/Decode round-trip the exact integer
values handed in, and day-slicing only partitions a trace by time, never
interpolates or fills a gap.
*/
package mseed

import (
	"time"

	"github.com/tomtom215/seedcore/internal/streamkey"
)

// Trace is one contiguous, uniformly sampled run of integer samples for a
// StreamKey.
type Trace struct {
	Key        streamkey.Key
	SampleRate float64
	Start      time.Time
	Samples    []int32
}

// End returns the time of the sample one period past the last sample,
// matching the archive's inclusive-exclusive interval convention.
func (t Trace) End() time.Time {
	if len(t.Samples) == 0 {
		return t.Start
	}
	return t.Start.Add(time.Duration(float64(len(t.Samples)) / t.SampleRate * float64(time.Second)))
}

// period returns the sample period as a time.Duration.
func (t Trace) period() time.Duration {
	return time.Duration(float64(time.Second) / t.SampleRate)
}

// DayBoundarySlack is the one-sample-period tolerance used to decide
// whether a trace that starts just before UTC midnight is attributed to
// the next day rather than split into a single-sample file. Per the
// day-boundary open question, this is exactly one sample period, never a
// fraction of one.
func DayBoundarySlack(sampleRate float64) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / sampleRate)
}
