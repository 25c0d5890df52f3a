// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package mseed

import (
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/seedcore/internal/streamkey"
)

type timedSample struct {
	t time.Time
	v int32
}

// Merge combines existing (possibly empty) with incoming into one or more
// time-ordered, contiguous Traces for one StreamKey and sample rate. A run
// of samples one period apart stays in a single Trace; any true gap starts
// a new one — Merge never interpolates or fills missing samples. On an
// exact-duplicate timestamp the incoming sample wins, so re-merging the
// same incoming trace twice is idempotent.
func Merge(existing, incoming Trace) ([]Trace, error) {
	if len(existing.Samples) == 0 && len(incoming.Samples) == 0 {
		return nil, nil
	}
	if len(existing.Samples) == 0 {
		return []Trace{incoming}, nil
	}
	if len(incoming.Samples) == 0 {
		return []Trace{existing}, nil
	}
	if existing.Key != incoming.Key {
		return nil, fmt.Errorf("mseed: merge key mismatch: %s vs %s", existing.Key, incoming.Key)
	}
	if existing.SampleRate != incoming.SampleRate {
		return nil, fmt.Errorf("mseed: merge sample rate mismatch: %v vs %v", existing.SampleRate, incoming.SampleRate)
	}

	period := existing.period()

	// incoming is added second so it overwrites existing on exact ties.
	byTime := make(map[int64]timedSample, len(existing.Samples)+len(incoming.Samples))
	add := func(tr Trace) {
		for i, v := range tr.Samples {
			ts := tr.Start.Add(time.Duration(i) * period)
			byTime[ts.UnixNano()] = timedSample{t: ts, v: v}
		}
	}
	add(existing)
	add(incoming)

	ordered := make([]timedSample, 0, len(byTime))
	for _, s := range byTime {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].t.Before(ordered[j].t) })

	slack := period / 2

	var out []Trace
	segStart := 0
	for i := 1; i < len(ordered); i++ {
		if ordered[i].t.Sub(ordered[i-1].t) > period+slack {
			out = append(out, traceFromSamples(existing.Key, existing.SampleRate, ordered[segStart:i]))
			segStart = i
		}
	}
	out = append(out, traceFromSamples(existing.Key, existing.SampleRate, ordered[segStart:]))

	return out, nil
}

func traceFromSamples(key streamkey.Key, sampleRate float64, samples []timedSample) Trace {
	values := make([]int32, len(samples))
	for i, s := range samples {
		values[i] = s.v
	}
	return Trace{Key: key, SampleRate: sampleRate, Start: samples[0].t, Samples: values}
}
