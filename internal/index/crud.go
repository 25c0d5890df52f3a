// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package index

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/seedcore/internal/apperr"
	"github.com/tomtom215/seedcore/internal/metrics"
	"github.com/tomtom215/seedcore/internal/model"
	"github.com/tomtom215/seedcore/internal/streamkey"
)

// deleteBatchSize caps how many ids a single DELETE ... WHERE id IN (...)
// statement names, to stay under SQLite's parameter limit.
const deleteBatchSize = 500

// BulkInsertArchive inserts or replaces interval rows in one transaction.
// The natural key is (network, station, location, channel, starttime,
// endtime); importtime is set to now for every row in the batch.
func (db *DB) BulkInsertArchive(intervals []model.ArchiveInterval) error {
	if len(intervals) == 0 {
		return nil
	}
	start := time.Now()
	err := withRetry("bulk_insert_archive", func() error {
		return db.insertArchiveTx(intervals)
	})
	metrics.RecordIndexQuery("bulk_insert_archive", time.Since(start))
	return err
}

func (db *DB) insertArchiveTx(intervals []model.ArchiveInterval) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO archive_data (network, station, location, channel, starttime, endtime, importtime)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(network, station, location, channel, starttime, endtime)
		DO UPDATE SET importtime = excluded.importtime`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	now := time.Now().UTC().Unix()
	for _, iv := range intervals {
		if _, err := stmt.Exec(iv.Key.Network, iv.Key.Station, iv.Key.Location, iv.Key.Channel,
			iv.Start.UTC().Unix(), iv.End.UTC().Unix(), now); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}
	_ = stmt.Close()
	return tx.Commit()
}

// BulkInsertArrivals inserts or replaces arrival rows in one transaction.
// Idempotent on the primary key (event_id, s_netcode, s_stacode, s_start).
func (db *DB) BulkInsertArrivals(records []model.ArrivalRecord) error {
	if len(records) == 0 {
		return nil
	}
	start := time.Now()
	err := withRetry("bulk_insert_arrivals", func() error {
		return db.insertArrivalsTx(records)
	})
	metrics.RecordIndexQuery("bulk_insert_arrivals", time.Since(start))
	return err
}

func (db *DB) insertArrivalsTx(records []model.ArrivalRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO arrival_data (
			event_id, magnitude, event_lat, event_lon, event_depth_km, event_origin,
			s_netcode, s_stacode, s_lat, s_lon, s_elev, s_start, s_end,
			distance_deg, distance_km, azimuth_deg, p_arrival, s_arrival, model, importtime
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(event_id, s_netcode, s_stacode, s_start) DO UPDATE SET
			p_arrival = excluded.p_arrival,
			s_arrival = excluded.s_arrival,
			importtime = excluded.importtime`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	now := time.Now().UTC().Unix()
	for _, r := range records {
		if _, err := stmt.Exec(
			r.EventID, r.Magnitude, r.EventLat, r.EventLon, r.EventDepthKm, r.EventOrigin.UTC().Unix(),
			r.StationNetwork, r.StationCode, r.StationLat, r.StationLon, r.StationElev,
			r.StationStart.UTC().Unix(), r.StationEnd.UTC().Unix(),
			r.DistanceDeg, r.DistanceKm, r.AzimuthDeg,
			nullableEpoch(r.PArrival), nullableEpoch(r.SArrival), r.Model, now,
		); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return err
		}
	}
	_ = stmt.Close()
	return tx.Commit()
}

func nullableEpoch(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Unix()
}

// Arrival is the (p_arrival, s_arrival) pair FetchArrivals returns.
type Arrival struct {
	P time.Time
	S time.Time
}

// FetchArrivals returns the memoized P/S arrival for an (event, station)
// pair, and false if no row exists.
func (db *DB) FetchArrivals(eventID, network, station string) (Arrival, bool, error) {
	row := db.conn.QueryRow(`
		SELECT p_arrival, s_arrival FROM arrival_data
		WHERE event_id = ? AND s_netcode = ? AND s_stacode = ?
		ORDER BY s_start DESC LIMIT 1`, eventID, network, station)

	var p, s sql.NullInt64
	if err := row.Scan(&p, &s); err != nil {
		if err == sql.ErrNoRows {
			return Arrival{}, false, nil
		}
		return Arrival{}, false, &apperr.IndexError{Err: err}
	}
	return Arrival{P: epochOrZero(p), S: epochOrZero(s)}, true, nil
}

// ArrivalExt extends Arrival with the memoized geometry.
type ArrivalExt struct {
	Arrival
	DistanceKm  float64
	DistanceDeg float64
	AzimuthDeg  float64
}

// FetchArrivalsExt returns the memoized arrival plus distance/azimuth
// geometry for an (event, station) pair.
func (db *DB) FetchArrivalsExt(eventID, network, station string) (ArrivalExt, bool, error) {
	row := db.conn.QueryRow(`
		SELECT p_arrival, s_arrival, distance_km, distance_deg, azimuth_deg FROM arrival_data
		WHERE event_id = ? AND s_netcode = ? AND s_stacode = ?
		ORDER BY s_start DESC LIMIT 1`, eventID, network, station)

	var p, s sql.NullInt64
	var ext ArrivalExt
	if err := row.Scan(&p, &s, &ext.DistanceKm, &ext.DistanceDeg, &ext.AzimuthDeg); err != nil {
		if err == sql.ErrNoRows {
			return ArrivalExt{}, false, nil
		}
		return ArrivalExt{}, false, &apperr.IndexError{Err: err}
	}
	ext.P = epochOrZero(p)
	ext.S = epochOrZero(s)
	return ext, true, nil
}

func epochOrZero(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.Unix(v.Int64, 0).UTC()
}

// Interval is one (start, end) span returned by OverlappingIntervals.
type Interval struct {
	Start time.Time
	End   time.Time
}

// OverlappingIntervals returns, ordered ascending by start, every stored
// interval for key that overlaps [start, end]: interval.end >= start AND
// interval.start <= end.
func (db *DB) OverlappingIntervals(key streamkey.Key, start, end time.Time) ([]Interval, error) {
	rows, err := db.conn.Query(`
		SELECT starttime, endtime FROM archive_data
		WHERE network = ? AND station = ? AND location = ? AND channel = ?
		  AND endtime >= ? AND starttime <= ?
		ORDER BY starttime ASC`,
		key.Network, key.Station, key.Location, key.Channel,
		start.UTC().Unix(), end.UTC().Unix())
	if err != nil {
		return nil, &apperr.IndexError{Err: err}
	}
	defer rows.Close()

	var out []Interval
	for rows.Next() {
		var s, e int64
		if err := rows.Scan(&s, &e); err != nil {
			return nil, &apperr.IndexError{Err: err}
		}
		out = append(out, Interval{Start: time.Unix(s, 0).UTC(), End: time.Unix(e, 0).UTC()})
	}
	if err := rows.Err(); err != nil {
		return nil, &apperr.IndexError{Err: err}
	}
	return out, nil
}

// Delete removes rows from table whose importtime lies in [startEpoch,
// endEpoch], batching ids in groups of deleteBatchSize to stay under the
// engine's parameter limit.
func (db *DB) Delete(table string, startEpoch, endEpoch int64) error {
	if table != "archive_data" && table != "arrival_data" {
		return &apperr.IndexError{Err: fmt.Errorf("unknown table %q", table)}
	}

	idCol := "id"
	if table == "arrival_data" {
		idCol = "rowid"
	}

	rows, err := db.conn.Query(fmt.Sprintf(`SELECT %s FROM %s WHERE importtime BETWEEN ? AND ?`, idCol, table),
		startEpoch, endEpoch)
	if err != nil {
		return &apperr.IndexError{Err: err}
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return &apperr.IndexError{Err: err}
		}
		ids = append(ids, id)
	}
	rows.Close()

	return db.deleteByIDs(table, idCol, ids)
}

func (db *DB) deleteByIDs(table, idCol string, ids []int64) error {
	for i := 0; i < len(ids); i += deleteBatchSize {
		end := i + deleteBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[i:end]
		if err := withRetry("delete", func() error {
			return db.deleteBatch(table, idCol, batch)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) deleteBatch(table, idCol string, ids []int64) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s IN (%s)`, table, idCol, placeholders)
	_, err := db.conn.Exec(query, args...)
	return err
}
