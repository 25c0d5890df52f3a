// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package planner

import (
	"time"

	"github.com/tomtom215/seedcore/internal/model"
	"github.com/tomtom215/seedcore/internal/streamkey"
)

// Continuous plans fetch requests for a fixed time window [t0, t1) against
// every channel in inv, chunked into windows of at most daysPerRequest
// days. For each channel the effective range is clipped to the channel's
// own operational window plus one day of slack past its end_date, to
// tolerate data arriving after a station formally closed.
func Continuous(inv model.Inventory, t0, t1 time.Time, daysPerRequest int) []model.FetchRequest {
	if daysPerRequest < 1 {
		daysPerRequest = 1
	}

	var out []model.FetchRequest
	for _, n := range inv.Networks {
		for _, s := range n.Stations {
			for _, c := range s.Channels {
				period := time.Duration(float64(time.Second) / c.SampleRate)
				start := maxTime(t0, c.Start)
				end := minTime(t1.Add(-period), c.End.AddDate(0, 0, 1))
				if !start.Before(end) {
					continue
				}

				key := streamkey.Key{Network: n.Code, Station: s.Code, Location: c.Location, Channel: c.Code}
				for winStart := start; winStart.Before(end); {
					winEnd := winStart.AddDate(0, 0, daysPerRequest)
					if winEnd.After(end) {
						winEnd = end
					}
					out = append(out, model.FetchRequest{
						Pattern: streamkey.Pattern{Network: key.Network, Station: key.Station, Location: key.Location, Channel: key.Channel},
						Start:   winStart,
						End:     winEnd,
					})
					winStart = winEnd
				}
			}
		}
	}
	return out
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
