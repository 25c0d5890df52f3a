// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

// Package streamkey defines the (network, station, location, channel)
// identity tuple shared by the archive index, request planner, and fetch
// pipeline, plus the SDS on-disk path derived from it.
package streamkey

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Key is the immutable four-tuple identifying one continuous recording.
// Location may be empty; the other three fields are always non-empty for
// a concrete (non-pattern) key.
type Key struct {
	Network  string
	Station  string
	Location string
	Channel  string
}

// String renders the key in "NET.STA.LOC.CHA" form.
func (k Key) String() string {
	return fmt.Sprintf("%s.%s.%s.%s", k.Network, k.Station, k.Location, k.Channel)
}

// Less orders keys lexicographically by (network, station, location, channel),
// the ordering the planner's combine step and the compactor's scan rely on.
func (k Key) Less(other Key) bool {
	if k.Network != other.Network {
		return k.Network < other.Network
	}
	if k.Station != other.Station {
		return k.Station < other.Station
	}
	if k.Location != other.Location {
		return k.Location < other.Location
	}
	return k.Channel < other.Channel
}

// SDSPath returns the absolute path for the single-day MiniSEED file this
// key/year/day-of-year would live at, in SeisComP Data Structure layout:
//
//	<root>/<YYYY>/<NET>/<STA>/<CHA>.D/<NET>.<STA>.<LOC>.<CHA>.D.<YYYY>.<DOY>
func (k Key) SDSPath(root string, year, doy int) string {
	fname := fmt.Sprintf("%s.%s.%s.%s.D.%04d.%03d", k.Network, k.Station, k.Location, k.Channel, year, doy)
	return filepath.Join(root, strconv.Itoa(year), k.Network, k.Station, k.Channel+".D", fname)
}

// Pattern is a FetchRequest's StreamKey-pattern: each field may be a single
// value or a comma-joined, lexicographically sorted set produced by the
// planner's request-combining pass.
type Pattern struct {
	Network  string
	Station  string
	Location string
	Channel  string
}

// Fields splits a comma-joined pattern field into its component values.
// A single value (no comma) returns a one-element slice.
func Fields(field string) []string {
	if field == "" {
		return []string{""}
	}
	return strings.Split(field, ",")
}

// JoinSorted de-duplicates and sorts a set of field values, then joins them
// with commas — the representation combine() emits for a widened field.
func JoinSorted(values []string) string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	sort.Strings(unique)
	return strings.Join(unique, ",")
}
