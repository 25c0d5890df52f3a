// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package index

import (
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/tomtom215/seedcore/internal/apperr"
	"github.com/tomtom215/seedcore/internal/logging"
	"github.com/tomtom215/seedcore/internal/metrics"
)

// maxLockRetries bounds the exponential backoff before a busy-database
// error is promoted from retryable to fatal.
const maxLockRetries = 8

// isBusyError reports whether err is SQLite's "database is locked" or
// "database table is locked" condition.
func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}

// withRetry runs op, retrying with exponential backoff plus jitter while
// the error looks like a transient lock. Once the retry budget is
// exhausted, a busy error is wrapped into a fatal *apperr.IndexError; any
// other error passes through as an *apperr.IndexError immediately.
func withRetry(operation string, op func() error) error {
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxLockRetries)

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !isBusyError(err) {
			return backoff.Permanent(&apperr.IndexError{Err: err})
		}
		if attempt > 1 {
			metrics.RecordIndexRetry(operation)
			logging.Warn().Str("operation", operation).Int("attempt", attempt).Msg("archive index busy, retrying")
		}
		return &apperr.IndexBusyError{Err: err}
	}, b)

	if err == nil {
		return nil
	}
	if indexErr, ok := err.(*apperr.IndexError); ok {
		return indexErr
	}
	return &apperr.IndexError{Err: err}
}
