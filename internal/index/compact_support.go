// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package index

import (
	"time"

	"github.com/tomtom215/seedcore/internal/apperr"
	"github.com/tomtom215/seedcore/internal/metrics"
	"github.com/tomtom215/seedcore/internal/streamkey"
)

// ArchiveRow is one archive_data row, exposed with its row id so the
// compactor can update or delete it directly.
type ArchiveRow struct {
	ID         int64
	Key        streamkey.Key
	Start      time.Time
	End        time.Time
	ImportTime time.Time
}

// AllArchiveRows returns every archive_data row ordered by (network,
// station, location, channel, starttime), the order the segment
// compactor streams its single pass in.
func (db *DB) AllArchiveRows() ([]ArchiveRow, error) {
	start := time.Now()
	rows, err := db.conn.Query(`
		SELECT id, network, station, location, channel, starttime, endtime, importtime
		FROM archive_data
		ORDER BY network, station, location, channel, starttime`)
	if err != nil {
		return nil, &apperr.IndexError{Err: err}
	}
	defer rows.Close()

	var out []ArchiveRow
	for rows.Next() {
		var r ArchiveRow
		var s, e, it int64
		if err := rows.Scan(&r.ID, &r.Key.Network, &r.Key.Station, &r.Key.Location, &r.Key.Channel, &s, &e, &it); err != nil {
			return nil, &apperr.IndexError{Err: err}
		}
		r.Start = time.Unix(s, 0).UTC()
		r.End = time.Unix(e, 0).UTC()
		r.ImportTime = time.Unix(it, 0).UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.IndexError{Err: err}
	}
	metrics.RecordIndexQuery("all_archive_rows", time.Since(start))
	return out, nil
}

// UpdateArchiveInterval extends an existing row's endtime and importtime
// in place, used by the compactor when it folds a later row into the
// current segment instead of inserting a new one.
func (db *DB) UpdateArchiveInterval(id int64, end, importTime time.Time) error {
	start := time.Now()
	err := withRetry("update_archive_interval", func() error {
		_, err := db.conn.Exec(`UPDATE archive_data SET endtime = ?, importtime = ? WHERE id = ?`,
			end.UTC().Unix(), importTime.UTC().Unix(), id)
		return err
	})
	metrics.RecordIndexQuery("update_archive_interval", time.Since(start))
	return err
}

// DeleteArchiveRows removes the named archive_data rows by id, batching
// at deleteBatchSize ids per statement.
func (db *DB) DeleteArchiveRows(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	start := time.Now()
	err := db.deleteByIDs("archive_data", "id", ids)
	metrics.RecordIndexQuery("delete_archive_rows", time.Since(start))
	return err
}
