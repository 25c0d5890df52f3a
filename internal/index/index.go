// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

/*
Package index implements the archive index: the durable catalog of which
(network, station, location, channel, time-range) intervals are present on
disk, plus the memoized event/station arrival geometry.

Connection Management:

modernc.org/sqlite serializes writers internally; the index opens a single
connection (MaxOpenConns=1) with WAL journaling and a busy_timeout pragma,
so every write commits before the next is attempted rather than racing the
driver's own lock. Busy-database errors are retried with exponential
backoff plus jitter up to a bounded budget; beyond that the error is
promoted to a fatal *apperr.IndexError.

Schema:

  - archive_data: one row per on-disk interval, natural key
    (network, station, location, channel, starttime, endtime), with a
    composite index covering every gap query the planner issues.
  - arrival_data: one row per (event, station) pair, primary key
    (event_id, s_netcode, s_stacode, s_start).
*/
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tomtom215/seedcore/internal/apperr"
	"github.com/tomtom215/seedcore/internal/logging"
)

// DB wraps the archive index's single SQLite connection.
type DB struct {
	conn *sql.DB
}

// Open creates the SQLite file (and its parent directory) if absent,
// applies WAL/synchronous/busy_timeout pragmas, and ensures the schema.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &apperr.IndexError{Err: fmt.Errorf("mkdir: %w", err)}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &apperr.IndexError{Err: fmt.Errorf("open: %w", err)}
	}

	// A single writer avoids SQLITE_BUSY races at the driver level; reads
	// share the same connection since WAL allows concurrent readers on the
	// underlying file but this package exposes one *sql.DB regardless.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	pragmas := "pragma journal_mode=WAL; pragma synchronous=NORMAL; pragma busy_timeout=5000; pragma foreign_keys=ON;"
	if _, err := conn.Exec(pragmas); err != nil {
		_ = conn.Close()
		return nil, &apperr.IndexError{Err: fmt.Errorf("pragmas: %w", err)}
	}

	db := &DB{conn: conn}
	if err := db.createSchema(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logging.Info().Str("path", path).Msg("archive index opened")
	return db, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
