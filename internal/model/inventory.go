// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

// Package model holds the read-only data entities the planner and fetch
// pipeline consume: Inventory, EventCatalog, ArchiveInterval, ArrivalRecord,
// and FetchRequest.
package model

import "time"

// OpenEnded is the sentinel end-time for a station or channel with no
// recorded end_date, treated as operating through the present.
var OpenEnded = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

// Channel describes one operational window of a single channel code.
type Channel struct {
	Code       string
	Location   string // may be empty
	SampleRate float64
	Start      time.Time
	End        time.Time // OpenEnded if still operating
}

// Station describes one station's location and operational channels.
type Station struct {
	Network  string
	Code     string
	Lat      float64
	Lon      float64
	Elev     float64
	Start    time.Time
	End      time.Time // OpenEnded if still operating
	Channels []Channel
}

// Network groups stations under a network code.
type Network struct {
	Code     string
	Stations []Station
}

// Inventory is a read-only hierarchical description of networks, stations,
// and channels. The core never mutates an Inventory; every selection method
// returns a new, filtered value.
type Inventory struct {
	Networks []Network
}

// AllStations flattens the inventory into a single station slice.
func (inv Inventory) AllStations() []Station {
	var out []Station
	for _, n := range inv.Networks {
		out = append(out, n.Stations...)
	}
	return out
}

// OperationalAt returns a new Inventory containing only stations (and, within
// them, only channels) whose [Start, End) window contains t.
func (inv Inventory) OperationalAt(t time.Time) Inventory {
	var out Inventory
	for _, n := range inv.Networks {
		var stations []Station
		for _, s := range n.Stations {
			if t.Before(s.Start) || !t.Before(s.End) {
				continue
			}
			var channels []Channel
			for _, c := range s.Channels {
				if t.Before(c.Start) || !t.Before(c.End) {
					continue
				}
				channels = append(channels, c)
			}
			if len(channels) == 0 {
				continue
			}
			s.Channels = channels
			stations = append(stations, s)
		}
		if len(stations) > 0 {
			out.Networks = append(out.Networks, Network{Code: n.Code, Stations: stations})
		}
	}
	return out
}

// Filter returns a new Inventory restricted by force/exclude station lists,
// each entry in "NN.SSSSS" form. An empty force list means "no restriction";
// exclude always applies.
func (inv Inventory) Filter(forceStations, excludeStations []string) Inventory {
	force := toSet(forceStations)
	exclude := toSet(excludeStations)

	var out Inventory
	for _, n := range inv.Networks {
		var stations []Station
		for _, s := range n.Stations {
			id := n.Code + "." + s.Code
			if _, excluded := exclude[id]; excluded {
				continue
			}
			if len(force) > 0 {
				if _, forced := force[id]; !forced {
					continue
				}
			}
			stations = append(stations, s)
		}
		if len(stations) > 0 {
			out.Networks = append(out.Networks, Network{Code: n.Code, Stations: stations})
		}
	}
	return out
}

// HighestSampleRateChannel returns the channel with the greatest sample rate
// for the station, breaking ties using channelPref order (first entry wins).
// Returns false if the station has no channels.
func (s Station) HighestSampleRateChannel(channelPref []string) (Channel, bool) {
	if len(s.Channels) == 0 {
		return Channel{}, false
	}
	best := s.Channels[0]
	for _, c := range s.Channels[1:] {
		switch {
		case c.SampleRate > best.SampleRate:
			best = c
		case c.SampleRate == best.SampleRate && prefRank(c.Code, channelPref) < prefRank(best.Code, channelPref):
			best = c
		}
	}
	return best, true
}

func prefRank(code string, pref []string) int {
	for i, p := range pref {
		if p == code {
			return i
		}
	}
	return len(pref)
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
