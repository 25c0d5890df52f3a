// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package index

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/seedcore/internal/apperr"
)

func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createSchema creates archive_data and arrival_data if they do not exist,
// along with the composite index the planner's gap queries rely on.
func (db *DB) createSchema() error {
	ctx, cancel := schemaContext()
	defer cancel()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS archive_data (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			network TEXT NOT NULL,
			station TEXT NOT NULL,
			location TEXT NOT NULL,
			channel TEXT NOT NULL,
			starttime INTEGER NOT NULL,
			endtime INTEGER NOT NULL,
			importtime INTEGER NOT NULL,
			UNIQUE(network, station, location, channel, starttime, endtime)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_archive_data
			ON archive_data(network, station, location, channel, starttime, endtime, importtime)`,
		`CREATE TABLE IF NOT EXISTS arrival_data (
			event_id TEXT NOT NULL,
			magnitude REAL,
			event_lat REAL NOT NULL,
			event_lon REAL NOT NULL,
			event_depth_km REAL NOT NULL,
			event_origin INTEGER NOT NULL,
			s_netcode TEXT NOT NULL,
			s_stacode TEXT NOT NULL,
			s_lat REAL NOT NULL,
			s_lon REAL NOT NULL,
			s_elev REAL NOT NULL,
			s_start INTEGER NOT NULL,
			s_end INTEGER NOT NULL,
			distance_deg REAL NOT NULL,
			distance_km REAL NOT NULL,
			azimuth_deg REAL NOT NULL,
			p_arrival INTEGER,
			s_arrival INTEGER,
			model TEXT NOT NULL,
			importtime INTEGER NOT NULL,
			PRIMARY KEY (event_id, s_netcode, s_stacode, s_start)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return &apperr.IndexError{Err: fmt.Errorf("schema: %s: %w", stmt, err)}
		}
	}
	return nil
}
