// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package remote

// openCredentialKey is the sentinel used when no network- or
// station-specific credential applies.
const openCredentialKey = "open"

// Credential is one user/password pair for the remote data service.
type Credential struct {
	User     string
	Password string
}

// Credentials is a read-only map of network ("NN") and network.station
// ("NN.SSSSS") keys to a Credential, plus an optional "open" fallback.
// Materialized once per run from config.
type Credentials map[string]Credential

// Resolve looks up the credential for a (network, station) pair, trying
// the most specific key first: "NN.SSSSS", then "NN", then the "open"
// fallback. ok is false if none of the three apply.
func (c Credentials) Resolve(network, station string) (Credential, bool) {
	if cred, ok := c[network+"."+station]; ok {
		return cred, true
	}
	if cred, ok := c[network]; ok {
		return cred, true
	}
	if cred, ok := c[openCredentialKey]; ok {
		return cred, true
	}
	return Credential{}, false
}
