// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

// Package compactor reduces archive index fragmentation left behind by
// many small fetch-pipeline writes, folding adjacent intervals for the
// same StreamKey within a gap tolerance into a single row.
package compactor

import (
	"time"

	"github.com/tomtom215/seedcore/internal/index"
	"github.com/tomtom215/seedcore/internal/logging"
	"github.com/tomtom215/seedcore/internal/metrics"
	"github.com/tomtom215/seedcore/internal/streamkey"
)

// DefaultGapTolerance is the tolerance used when the configuration does
// not specify one.
const DefaultGapTolerance = 60 * time.Second

// Index is the subset of the archive index the compactor reads and
// rewrites.
type Index interface {
	AllArchiveRows() ([]index.ArchiveRow, error)
	UpdateArchiveInterval(id int64, end, importTime time.Time) error
	DeleteArchiveRows(ids []int64) error
}

// Run streams every archive_data row ordered by (network, station,
// location, channel, starttime), merges runs of rows for the same
// StreamKey whose gap from the current segment is within tolerance, and
// applies the resulting updates/deletions. It is idempotent: a second
// Run with the same tolerance finds nothing left to merge.
func Run(idx Index, tolerance time.Duration) error {
	if tolerance <= 0 {
		tolerance = DefaultGapTolerance
	}
	started := time.Now()
	defer func() { metrics.CompactorRunDuration.Observe(time.Since(started).Seconds()) }()

	rows, err := idx.AllArchiveRows()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	plans := plan(rows, tolerance)

	var toDelete []int64
	var merged int
	for _, p := range plans {
		if len(p.absorbed) == 0 {
			continue
		}
		if err := idx.UpdateArchiveInterval(p.segment.ID, p.segment.End, p.segment.ImportTime); err != nil {
			return err
		}
		toDelete = append(toDelete, p.absorbed...)
		merged += len(p.absorbed)
	}

	if err := idx.DeleteArchiveRows(toDelete); err != nil {
		return err
	}

	metrics.CompactorSegmentsMerged.Add(float64(merged))
	logging.Info().Int("rows_in", len(rows)).Int("segments_merged", merged).
		Dur("tolerance", tolerance).Msg("compactor pass complete")
	return nil
}

// segmentPlan is one output segment: the row it is keyed on (updated in
// place if it absorbed anything) plus the ids of the rows folded into it.
type segmentPlan struct {
	segment  index.ArchiveRow
	absorbed []int64
}

// plan walks rows (already ordered by key, starttime) and produces one
// segmentPlan per maximal run of same-key rows within tolerance of each
// other.
func plan(rows []index.ArchiveRow, tolerance time.Duration) []segmentPlan {
	var out []segmentPlan
	current := rows[0]
	var absorbed []int64

	flush := func() {
		out = append(out, segmentPlan{segment: current, absorbed: absorbed})
		absorbed = nil
	}

	for _, row := range rows[1:] {
		if sameKey(current.Key, row.Key) && row.Start.Sub(current.End) <= tolerance {
			if row.End.After(current.End) {
				current.End = row.End
			}
			if row.ImportTime.After(current.ImportTime) {
				current.ImportTime = row.ImportTime
			}
			absorbed = append(absorbed, row.ID)
			continue
		}
		flush()
		current = row
	}
	flush()

	return out
}

func sameKey(a, b streamkey.Key) bool {
	return a == b
}
