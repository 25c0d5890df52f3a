// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package planner

import (
	"sort"

	"github.com/tomtom215/seedcore/internal/model"
	"github.com/tomtom215/seedcore/internal/streamkey"
)

// Prune queries idx for each request's exact StreamKey and removes any
// portion already covered, walking the overlapping intervals in ascending
// start order with a cursor. A request with no overlap is kept unchanged.
// Sub-requests shorter than MinRequestWindow are discarded. Requests must
// still carry single-value Pattern fields; combining happens after
// pruning.
func Prune(idx GapIndex, requests []model.FetchRequest) ([]model.FetchRequest, error) {
	var out []model.FetchRequest

	for _, r := range requests {
		key := streamkey.Key{
			Network:  r.Pattern.Network,
			Station:  r.Pattern.Station,
			Location: r.Pattern.Location,
			Channel:  r.Pattern.Channel,
		}

		intervals, err := idx.OverlappingIntervals(key, r.Start, r.End)
		if err != nil {
			return nil, err
		}
		if len(intervals) == 0 {
			out = append(out, r)
			continue
		}

		cursor := r.Start
		for _, iv := range intervals {
			if !cursor.After(iv.Start.Add(-MinRequestWindow)) {
				out = append(out, model.FetchRequest{Pattern: r.Pattern, Start: cursor, End: iv.Start})
			}
			cursor = maxTime(cursor, iv.End)
		}
		if !cursor.After(r.End.Add(-MinRequestWindow)) {
			out = append(out, model.FetchRequest{Pattern: r.Pattern, Start: cursor, End: r.End})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		if out[i].Pattern.Network != out[j].Pattern.Network {
			return out[i].Pattern.Network < out[j].Pattern.Network
		}
		return out[i].Pattern.Station < out[j].Pattern.Station
	})

	return out, nil
}
