// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package index

import (
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/seedcore/internal/metrics"
)

// modifyCommands are the SQL verbs ExecuteQuery reports a row count for.
var modifyCommands = map[string]bool{
	"INSERT": true, "UPDATE": true, "DELETE": true,
	"DROP": true, "CREATE": true, "ALTER": true, "TRUNCATE": true,
}

// Row is one result row from ExecuteQuery's SELECT path, keyed by column
// name.
type Row map[string]interface{}

// ExecuteQuery is the diagnostic passthrough behind the operator query
// endpoint: it runs arbitrary SQL against the archive index and reports
// whether the result is tabular. SELECT statements return their rows;
// every other statement is executed and summarized as a status message.
func (db *DB) ExecuteQuery(query string) (isTabular bool, message string, rows []Row, err error) {
	start := time.Now()
	defer func() { metrics.RecordIndexQuery("execute_query", time.Since(start)) }()

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return false, "empty query", nil, nil
	}
	firstWord := strings.ToUpper(strings.Fields(trimmed)[0])

	if firstWord == "SELECT" {
		result, qerr := db.selectRows(query)
		if qerr != nil {
			return false, "error executing query: " + qerr.Error(), nil, qerr
		}
		return true, queryResultMessage(len(result)), result, nil
	}

	res, eerr := db.conn.Exec(query)
	if eerr != nil {
		return false, "error executing query: " + eerr.Error(), nil, eerr
	}
	if modifyCommands[firstWord] {
		affected, _ := res.RowsAffected()
		return false, rowsAffectedMessage(affected), nil, nil
	}
	return false, "query executed successfully", nil, nil
}

func queryResultMessage(n int) string {
	if n == 1 {
		return "query executed successfully, 1 row returned"
	}
	return "query executed successfully, " + strconv.Itoa(n) + " rows returned"
}

func rowsAffectedMessage(n int64) string {
	return "query executed successfully, rows affected: " + strconv.FormatInt(n, 10)
}

func (db *DB) selectRows(query string) ([]Row, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
