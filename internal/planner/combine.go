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

type combineKey struct {
	network string
	start   int64
	end     int64
}

type combineGroup struct {
	start     time.Time
	end       time.Time
	stations  []string
	locations []string
	channels  []string
}

// Combine groups requests sharing (network, starttime, endtime) into one,
// concatenating their station, location, and channel fields into
// de-duplicated, lexicographically sorted, comma-joined sets. It never
// widens a time range to combine two requests.
func Combine(requests []model.FetchRequest) []model.FetchRequest {
	groups := make(map[combineKey]*combineGroup)
	var order []combineKey

	for _, r := range requests {
		k := combineKey{
			network: r.Pattern.Network,
			start:   r.Start.UTC().Unix(),
			end:     r.End.UTC().Unix(),
		}
		g, ok := groups[k]
		if !ok {
			g = &combineGroup{start: r.Start, end: r.End}
			groups[k] = g
			order = append(order, k)
		}
		g.stations = append(g.stations, streamkey.Fields(r.Pattern.Station)...)
		g.locations = append(g.locations, streamkey.Fields(r.Pattern.Location)...)
		g.channels = append(g.channels, streamkey.Fields(r.Pattern.Channel)...)
	}

	out := make([]model.FetchRequest, 0, len(order))
	for _, k := range order {
		g := groups[k]
		out = append(out, model.FetchRequest{
			Pattern: streamkey.Pattern{
				Network:  k.network,
				Station:  streamkey.JoinSorted(g.stations),
				Location: streamkey.JoinSorted(g.locations),
				Channel:  streamkey.JoinSorted(g.channels),
			},
			Start: g.start,
			End:   g.end,
		})
	}
	return out
}
