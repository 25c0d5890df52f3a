// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"config error", &ConfigError{Msg: "missing sds_path"}, true},
		{"index error", &IndexError{Err: errors.New("disk full")}, true},
		{"index busy", &IndexBusyError{Err: errors.New("locked")}, false},
		{"fetch error", &FetchError{Request: "AU.CMSA", Err: errors.New("timeout")}, false},
		{"parse error", &ParseError{Path: "x.mseed", Err: errors.New("bad header")}, false},
		{"write error", &WriteError{Path: "x.mseed", Err: errors.New("disk full")}, false},
		{"travel time unavailable", &TravelTimeUnavailable{EventID: "e1", Station: "AU.CMSA"}, false},
		{"wrapped index error", fmt.Errorf("initialize: %w", &IndexError{Err: errors.New("schema")}), true},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
