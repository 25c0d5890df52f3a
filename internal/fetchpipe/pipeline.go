// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

// Package fetchpipe executes a combined FetchRequest against the remote
// data service, splits the response by UTC day, merges each day's traces
// with whatever is already on disk, and updates the archive index. It is
// the only package that writes to the SDS tree.
package fetchpipe

import (
	"context"
	"time"

	"github.com/tomtom215/seedcore/internal/apperr"
	"github.com/tomtom215/seedcore/internal/logging"
	"github.com/tomtom215/seedcore/internal/metrics"
	"github.com/tomtom215/seedcore/internal/model"
	"github.com/tomtom215/seedcore/internal/mseed"
	"github.com/tomtom215/seedcore/internal/remote"
	"github.com/tomtom215/seedcore/internal/streamkey"
)

// defaultStationSplitThreshold is the station-count above which a combined
// request is split into one sub-request per station before being sent to
// the remote service, since most FDSN-style protocols cap the length of a
// comma-joined station field.
const defaultStationSplitThreshold = 6

// ArchiveIndex is the subset of the archive index the fetch pipeline
// writes to after a successful file write.
type ArchiveIndex interface {
	BulkInsertArchive(intervals []model.ArchiveInterval) error
}

// Pipeline executes FetchRequests against a remote data service and
// durably appends the result to an SDS archive.
type Pipeline struct {
	Client                remote.Client
	Index                 ArchiveIndex
	SDSRoot               string
	StationSplitThreshold int
}

// New returns a Pipeline with the default station-split threshold.
func New(client remote.Client, idx ArchiveIndex, sdsRoot string) *Pipeline {
	return &Pipeline{
		Client:                client,
		Index:                 idx,
		SDSRoot:               sdsRoot,
		StationSplitThreshold: defaultStationSplitThreshold,
	}
}

// Run executes one request. A remote fetch error for the request as a
// whole is logged and the request is abandoned (no partial index
// update). When the station field names more stations than
// StationSplitThreshold, Run issues one sub-request per station instead;
// an individual station's failure is logged and the remaining stations
// still proceed.
func (p *Pipeline) Run(ctx context.Context, req model.FetchRequest) error {
	threshold := p.StationSplitThreshold
	if threshold <= 0 {
		threshold = defaultStationSplitThreshold
	}

	stations := streamkey.Fields(req.Pattern.Station)
	if len(stations) <= threshold {
		return p.runSingle(ctx, req)
	}

	for _, station := range stations {
		sub := req
		sub.Pattern.Station = station
		if err := p.runSingle(ctx, sub); err != nil {
			logging.Warn().Err(err).Str("station", station).Msg("per-station fetch failed, continuing with remaining stations")
		}
	}
	return nil
}

func (p *Pipeline) runSingle(ctx context.Context, req model.FetchRequest) error {
	started := time.Now()
	data, err := p.Client.GetWaveforms(ctx, remote.WaveformRequest{
		Network:  req.Pattern.Network,
		Station:  req.Pattern.Station,
		Location: req.Pattern.Location,
		Channel:  req.Pattern.Channel,
		Start:    req.Start,
		End:      req.End,
	})
	if err != nil {
		metrics.RecordFetch("error", time.Since(started))
		fetchErr := &apperr.FetchError{Request: requestLabel(req), Err: err}
		logging.Warn().Err(fetchErr).Msg("remote fetch failed, abandoning request")
		return fetchErr
	}
	metrics.RecordFetch("success", time.Since(started))

	traces, err := mseed.Decode(data)
	if err != nil {
		parseErr := &apperr.ParseError{Path: requestLabel(req), Err: err}
		logging.Warn().Err(parseErr).Msg("could not parse returned waveform stream")
		return parseErr
	}

	for dk, group := range groupByDay(traces) {
		if err := p.writeGroup(dk.key, dk.year, dk.doy, group); err != nil {
			logging.Warn().Err(err).Str("key", dk.key.String()).
				Int("year", dk.year).Int("doy", dk.doy).
				Msg("skipping day group after a read, merge, or write failure")
		}
	}
	return nil
}

type dayKey struct {
	key  streamkey.Key
	year int
	doy  int
}

// groupByDay slices every returned trace at UTC day boundaries and groups
// the slices by (StreamKey, year, day-of-year), the same grouping the SDS
// path is derived from.
func groupByDay(traces []mseed.Trace) map[dayKey][]mseed.Trace {
	groups := make(map[dayKey][]mseed.Trace)
	for _, t := range traces {
		for _, day := range mseed.SplitByDay(t) {
			// A slice starting within one sample of midnight belongs to the next day.
			attributed := day.Start.UTC().Add(mseed.DayBoundarySlack(day.SampleRate))
			dk := dayKey{key: day.Key, year: attributed.Year(), doy: attributed.YearDay()}
			groups[dk] = append(groups[dk], day)
		}
	}
	return groups
}

func requestLabel(req model.FetchRequest) string {
	return req.Pattern.Network + "." + req.Pattern.Station + "." + req.Pattern.Location + "." + req.Pattern.Channel
}
