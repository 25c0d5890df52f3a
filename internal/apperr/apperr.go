// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

// Package apperr defines the run's error taxonomy. Only ConfigError and
// IndexError are fatal; every other kind degrades the current request or
// file and lets the run continue.
package apperr

import (
	"errors"
	"fmt"
)

// ConfigError signals a missing or malformed required setting. Fatal at
// startup.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "config error: " + e.Msg }

// IndexBusyError signals a transient database lock, retried with backoff.
// If the retry budget is exhausted the caller wraps this into an
// IndexError.
type IndexBusyError struct {
	Err error
}

func (e *IndexBusyError) Error() string { return fmt.Sprintf("index busy: %v", e.Err) }
func (e *IndexBusyError) Unwrap() error { return e.Err }

// IndexError signals a schema or I/O failure on the archive index. Fatal.
type IndexError struct {
	Err error
}

func (e *IndexError) Error() string { return fmt.Sprintf("index error: %v", e.Err) }
func (e *IndexError) Unwrap() error { return e.Err }

// FetchError signals the remote data service returned an error, no data,
// or a transport failure. The offending request is skipped, not fatal.
type FetchError struct {
	Request string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch error for %s: %v", e.Request, e.Err)
}
func (e *FetchError) Unwrap() error { return e.Err }

// ParseError signals a MiniSEED file that cannot be read. That group is
// skipped; others continue.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error for %s: %v", e.Path, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// WriteError signals a file that cannot be written. No index row is
// created for it.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write error for %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// TravelTimeUnavailable signals the travel-time service could not produce
// a first arrival for this geometry. The (event, station) pair is
// skipped, not retried.
type TravelTimeUnavailable struct {
	EventID string
	Station string
}

func (e *TravelTimeUnavailable) Error() string {
	return fmt.Sprintf("no travel-time arrival for event %s at station %s", e.EventID, e.Station)
}

// IsFatal reports whether err should halt the run. Only ConfigError and
// IndexError are fatal; every other kind is logged and the run advances.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var cfg *ConfigError
	var idx *IndexError
	return errors.As(err, &cfg) || errors.As(err, &idx)
}
