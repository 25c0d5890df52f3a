// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package mseed

import "time"

// SplitByDay partitions t into one Trace per UTC calendar day. A trace
// that begins within DayBoundarySlack(t.SampleRate) of the next day's
// midnight is attributed entirely to that next day, so a lone sample
// never produces a one-sample file. The slices are exhaustive and
// disjoint: their union is exactly [t.Start, t.End()).
func SplitByDay(t Trace) []Trace {
	if len(t.Samples) == 0 {
		return nil
	}

	slack := DayBoundarySlack(t.SampleRate)
	period := t.period()

	var out []Trace
	dayStart := attributedDayStart(t.Start, slack)
	segStart := 0
	segDayStart := dayStart

	for i := 1; i < len(t.Samples); i++ {
		sampleTime := t.Start.Add(time.Duration(i) * period)
		day := attributedDayStart(sampleTime, slack)
		if !day.Equal(segDayStart) {
			out = append(out, Trace{
				Key:        t.Key,
				SampleRate: t.SampleRate,
				Start:      t.Start.Add(time.Duration(segStart) * period),
				Samples:    t.Samples[segStart:i],
			})
			segStart = i
			segDayStart = day
		}
	}

	out = append(out, Trace{
		Key:        t.Key,
		SampleRate: t.SampleRate,
		Start:      t.Start.Add(time.Duration(segStart) * period),
		Samples:    t.Samples[segStart:],
	})

	return out
}

// attributedDayStart returns the midnight-UTC boundary that ts belongs to,
// with ts attributed to the next day if it falls within slack of that
// day's start.
func attributedDayStart(ts time.Time, slack time.Duration) time.Time {
	ts = ts.UTC()
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)
	if !ts.Before(nextDay.Add(-slack)) {
		return nextDay
	}
	return day
}
