// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package remote

import "testing"

func TestCredentialsResolvePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		creds    Credentials
		network  string
		station  string
		wantUser string
		wantOK   bool
	}{
		{
			name:     "station-specific wins over network and open",
			creds:    Credentials{"IU.ANMO": {User: "station-user"}, "IU": {User: "net-user"}, "open": {User: "open-user"}},
			network:  "IU",
			station:  "ANMO",
			wantUser: "station-user",
			wantOK:   true,
		},
		{
			name:     "network wins over open when no station entry",
			creds:    Credentials{"IU": {User: "net-user"}, "open": {User: "open-user"}},
			network:  "IU",
			station:  "ANMO",
			wantUser: "net-user",
			wantOK:   true,
		},
		{
			name:     "falls back to open",
			creds:    Credentials{"open": {User: "open-user"}},
			network:  "IU",
			station:  "ANMO",
			wantUser: "open-user",
			wantOK:   true,
		},
		{
			name:    "no match",
			creds:   Credentials{"GE": {User: "ge-user"}},
			network: "IU",
			station: "ANMO",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.creds.Resolve(tt.network, tt.station)
			if ok != tt.wantOK {
				t.Fatalf("Resolve() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.User != tt.wantUser {
				t.Errorf("Resolve() user = %q, want %q", got.User, tt.wantUser)
			}
		})
	}
}
